package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type objectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// S3Sink archives one JSON object per event.
type S3Sink struct {
	client objectPutter
	bucket string
}

func NewS3Sink(cfg S3Config) *S3Sink {
	opts := s3.Options{
		Region:      cfg.Region,
		Credentials: credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
		opts.UsePathStyle = true
	}

	return &S3Sink{
		client: s3.New(opts),
		bucket: cfg.Bucket,
	}
}

func (s *S3Sink) Name() string { return "s3_archive" }

func (s *S3Sink) Deliver(ctx context.Context, ev Event) error {
	body, err := json.Marshal(eventBody(ev))
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(objectKey(ev)),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("put event %s: %w", ev.ID, err)
	}
	return nil
}

// objectKey groups events by day and booking.
func objectKey(ev Event) string {
	return fmt.Sprintf("booking-events/%s/%d/%s-%s.json",
		ev.OccurredAt.UTC().Format("2006/01/02"),
		ev.BookingID,
		ev.Kind,
		ev.ID,
	)
}
