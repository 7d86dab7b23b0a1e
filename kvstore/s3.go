/*
s3.go - S3-compatible storage backend

PURPOSE:
  Production backend over a single bucket on AWS S3 or MinIO. A stored
  document maps to the object "<namespace>/<key>"; namespaces are just
  key prefixes, so List is a prefix listing.

CREDENTIALS:
  Either explicit static credentials from configuration, or the default
  AWS credential chain when none are given. Credentials are resolved
  once at construction; Ping (HeadBucket) verifies them at startup so a
  misconfigured deployment fails fast instead of on the first wipe.
*/
package kvstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Config holds explicit construction parameters for the S3 backend.
type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string // optional; enables custom endpoint (e.g. MinIO)
	AccessKeyID     string // optional (falls back to default credential chain)
	SecretAccessKey string // optional
	PathStyle       bool
}

// S3Store implements Store over a single S3 bucket.
type S3Store struct {
	client *s3.Client
	bucket string
}

// NewS3 creates an S3 store from cfg.
func NewS3(ctx context.Context, cfg S3Config) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.PathStyle {
			o.UsePathStyle = true
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return &S3Store{client: client, bucket: cfg.Bucket}, nil
}

func (s *S3Store) Namespace(name string) Namespace {
	return &s3Namespace{store: s, prefix: name + "/"}
}

func (s *S3Store) Ping(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	return err
}

func (s *S3Store) Driver() Driver { return DriverS3 }

func (s *S3Store) Close() error { return nil }

type s3Namespace struct {
	store  *S3Store
	prefix string
}

func (n *s3Namespace) List(ctx context.Context) ([]string, error) {
	var keys []string
	var token *string
	for {
		out, err := n.store.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(n.store.bucket),
			Prefix:            aws.String(n.prefix),
			ContinuationToken: token,
		})
		if err != nil {
			return nil, err
		}
		for _, obj := range out.Contents {
			if obj.Key == nil {
				continue
			}
			keys = append(keys, strings.TrimPrefix(*obj.Key, n.prefix))
		}
		if out.IsTruncated == nil || !*out.IsTruncated {
			return keys, nil
		}
		token = out.NextContinuationToken
	}
}

func (n *s3Namespace) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := n.store.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(n.store.bucket),
		Key:    aws.String(n.prefix + key),
	})
	var noKey *types.NoSuchKey
	if errors.As(err, &noKey) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, err
	}
	defer out.Body.Close()
	return io.ReadAll(out.Body)
}

func (n *s3Namespace) Set(ctx context.Context, key string, value []byte) error {
	_, err := n.store.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(n.store.bucket),
		Key:         aws.String(n.prefix + key),
		Body:        bytes.NewReader(value),
		ContentType: aws.String("application/json"),
	})
	return err
}

func (n *s3Namespace) Delete(ctx context.Context, key string) error {
	_, err := n.store.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(n.store.bucket),
		Key:    aws.String(n.prefix + key),
	})
	return err
}
