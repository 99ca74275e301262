package s3infra

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/go-auth-nosql/internal/domain"
)

// objectGetter is the subset of *s3.Client used to read templates.
type objectGetter interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// TemplateStore reads email templates from a bucket laid out as
// templates/<name>/<part>.tmpl.
type TemplateStore struct {
	client objectGetter
	bucket string
}

func NewTemplateStore(client objectGetter, bucket string) *TemplateStore {
	return &TemplateStore{client: client, bucket: bucket}
}

// Read returns the template part. Missing objects wrap domain.ErrNotFound.
func (s *TemplateStore) Read(ctx context.Context, name, part string) ([]byte, error) {
	key := path.Join("templates", name, part+".tmpl")
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, fmt.Errorf("template %s: %w", key, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("s3 get object: %w", err)
	}
	defer out.Body.Close()
	return io.ReadAll(out.Body)
}
