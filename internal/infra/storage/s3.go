// Package storage holds object-storage adapters. Currently only user
// avatars, kept in S3.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// AvatarStore uploads user avatars to an S3 bucket and hands back their
// public URL.
type AvatarStore struct {
	client *s3.Client
	bucket string
	region string
	prefix string
}

func NewAvatarStore(accessKey, secretKey, region, bucket, prefix string) (*AvatarStore, error) {
	if region == "" {
		region = "us-east-1"
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	return &AvatarStore{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		region: region,
		prefix: prefix,
	}, nil
}

// Upload stores the avatar under <prefix>/avatars/<userID>/<filename> and
// returns its public URL. Re-uploading for the same user and filename
// overwrites the previous object.
func (s *AvatarStore) Upload(ctx context.Context, userID, filename, contentType string, data []byte) (string, error) {
	key := path.Join(s.prefix, "avatars", userID, filename)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("uploading avatar to s3: %w", err)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key), nil
}
