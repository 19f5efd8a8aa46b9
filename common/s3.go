// Package common holds shared infrastructure clients.
package common

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"clipchat/config"
)

// Archive stores finished job outputs in an S3 bucket. It satisfies
// media.Archiver.
type Archive struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewArchive builds the archive using the standard AWS config/credential
// chain, with an optional region override.
func NewArchive(ctx context.Context, bucket, region, prefix string) (*Archive, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}
	return &Archive{
		client: s3.NewFromConfig(awsCfg),
		bucket: bucket,
		prefix: prefix,
	}, nil
}

// objectKey derives the bucket key for one job output: prefix/jobID/filename.
func objectKey(prefix, jobID, outputPath string) string {
	return path.Join(prefix, jobID, filepath.Base(outputPath))
}

// Archive uploads one output file and returns its key.
func (a *Archive) Archive(ctx context.Context, jobID, outputPath string) (string, error) {
	f, err := os.Open(outputPath)
	if err != nil {
		return "", fmt.Errorf("open output: %w", err)
	}
	defer f.Close()

	key := objectKey(a.prefix, jobID, outputPath)
	ext := strings.TrimPrefix(filepath.Ext(outputPath), ".")
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(config.ContentType(ext)),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return key, nil
}

// Exists reports whether a key is already archived; 404 and NotFound are
// "no", everything else is an error.
func (a *Archive) Exists(ctx context.Context, key string) (bool, error) {
	_, err := a.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	})
	if err == nil {
		return true, nil
	}
	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) && respErr.HTTPStatusCode() == 404 {
		return false, nil
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NotFound" {
		return false, nil
	}
	return false, err
}
