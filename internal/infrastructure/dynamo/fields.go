package dynamo

// DynamoDB attribute names used in key and update expressions across all repos.
// Using constants prevents silent runtime bugs caused by key typos.
const (
	fieldAccountID                = "account_id"
	fieldEmailKey                 = "email_key"
	fieldConfirmationResetTimeout = "confirmation_reset_timeout"
	fieldUpdatedAt                = "updated_at"
	fieldDeliveryID               = "delivery_id"
	fieldCreatedAt                = "created_at"
)

const indexEmailKey = "email_key-index"

const indexAccountCreatedAt = "account_id-created_at-index"
