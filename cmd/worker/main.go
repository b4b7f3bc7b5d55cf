package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"resume-builder/internal/bootstrap"
	"resume-builder/internal/queue"
	"resume-builder/internal/shared/config"
	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/internal/workerproc"
)

const (
	defaultRegion             = "us-east-1"
	defaultVisibilitySeconds  = 300
	defaultWorkerConcurrency  = 4
	defaultShutdownTimeoutSec = 30
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	concurrency := max(1, envInt("WORKER_CONCURRENCY", defaultWorkerConcurrency))
	shutdownTimeout := time.Duration(envInt("WORKER_SHUTDOWN_TIMEOUT_SECONDS", defaultShutdownTimeoutSec)) * time.Second

	app, err := bootstrap.Build(cfg)
	if err != nil {
		log.Fatalf("bootstrap build: %v", err)
	}
	defer app.Close()
	proc := workerproc.NewVerifier(app.ResumesRepo, app.Store)

	switch cfg.EventsBackend {
	case "amqp", "rabbitmq":
		queueName := strings.TrimSpace(os.Getenv("WORKER_AMQP_QUEUE"))
		log.Printf("worker started backend=amqp exchange=%s concurrency=%d", cfg.EventsExchange, concurrency)
		err := queue.ConsumeAMQP(ctx, cfg.RabbitMQURL, cfg.EventsExchange, queueName, concurrency, func(ctx context.Context, body []byte) bool {
			return process(ctx, proc, string(body), map[string]any{"backend": "amqp"})
		})
		if err != nil {
			log.Fatalf("amqp consumer: %v", err)
		}
	case "sqs":
		if strings.TrimSpace(cfg.EventsSQSQueueURL) == "" {
			log.Fatal("EVENTS_SQS_QUEUE_URL is required")
		}
		pollSQS(ctx, cfg, proc, concurrency, shutdownTimeout)
	default:
		log.Fatalf("worker needs EVENTS_BACKEND=sqs or amqp, got %q", cfg.EventsBackend)
	}
}

func pollSQS(ctx context.Context, cfg config.Config, proc workerproc.Processor, concurrency int, shutdownTimeout time.Duration) {
	region := cfg.AWSRegion
	if region == "" {
		region = defaultRegion
	}
	visibilitySeconds := envInt("WORKER_VISIBILITY_TIMEOUT_SECONDS", defaultVisibilitySeconds)
	queueURL := cfg.EventsSQSQueueURL

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		log.Fatalf("load aws config: %v", err)
	}
	var client sqsAPI = sqs.NewFromConfig(awsCfg)

	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	log.Printf("worker started backend=sqs queue=%s concurrency=%d visibility=%ds", queueURL, concurrency, visibilitySeconds)

pollLoop:
	for {
		select {
		case <-ctx.Done():
			break pollLoop
		default:
		}

		resp, err := client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
			QueueUrl:              aws.String(queueURL),
			MaxNumberOfMessages:   10,
			WaitTimeSeconds:       20,
			VisibilityTimeout:     int32(visibilitySeconds),
			MessageAttributeNames: []string{"All"},
			AttributeNames:        []sqstypes.QueueAttributeName{sqstypes.QueueAttributeName("ApproximateReceiveCount")},
		})
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
				break pollLoop
			}
			log.Printf("receive message: %v", err)
			continue
		}

		for _, msg := range resp.Messages {
			select {
			case <-ctx.Done():
				break pollLoop
			case sem <- struct{}{}:
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				defer func() { <-sem }()
				handleMessage(ctx, client, queueURL, proc, msg)
			}()
		}
	}

	log.Printf("shutdown requested, waiting up to %s for in-flight events", shutdownTimeout)
	waitDone := make(chan struct{})
	go func() {
		wg.Wait()
		close(waitDone)
	}()
	select {
	case <-waitDone:
	case <-time.After(shutdownTimeout):
		log.Printf("shutdown timeout reached; exiting with in-flight events")
	}
}

type sqsAPI interface {
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

func handleMessage(ctx context.Context, client sqsAPI, queueURL string, proc workerproc.Processor, msg sqstypes.Message) {
	fields := map[string]any{
		"sqs_message_id": aws.ToString(msg.MessageId),
		"receive_count":  receiveCount(msg),
	}
	if !process(ctx, proc, aws.ToString(msg.Body), fields) {
		return
	}
	receipt := aws.ToString(msg.ReceiptHandle)
	if receipt == "" {
		fields["error"] = "missing receipt handle"
		telemetry.Error("worker.export.delete_failed", fields)
		return
	}
	if _, err := client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(queueURL),
		ReceiptHandle: aws.String(receipt),
	}); err != nil {
		fields["error"] = err.Error()
		telemetry.Error("worker.export.delete_failed", fields)
	}
}

// process handles one event body and reports whether it is finished with, either because it
// succeeded or because retrying cannot help. fields carries transport details for logging.
func process(ctx context.Context, proc workerproc.Processor, body string, fields map[string]any) bool {
	decoded, meta, err := workerproc.ParseMessage(body)
	fields["body_len"] = meta.BodyLen
	if meta.BodySHA != "" {
		fields["body_sha256"] = meta.BodySHA
	}
	if err != nil {
		fields["error"] = err.Error()
		var typeErr workerproc.ErrUnexpectedType
		switch {
		case errors.As(err, &typeErr):
			fields["event_type"] = typeErr.Type
			telemetry.Warn("worker.export.skipped", fields)
			metrics.IncWorkerEvent(typeErr.Type, "skipped")
		case errors.As(err, new(workerproc.ErrMissingResumeID)):
			fields["request_id"] = decoded.RequestID
			telemetry.Error("worker.export.missing_id", fields)
			metrics.IncWorkerEvent(decoded.Type, "discarded")
		default:
			telemetry.Error("worker.export.decode_failed", fields)
			metrics.IncWorkerEvent("", "discarded")
		}
		return true
	}

	fields["resume_id"] = decoded.ResumeID
	if decoded.RequestID != "" {
		fields["request_id"] = decoded.RequestID
	}
	telemetry.Info("worker.export.received", fields)

	if err := workerproc.HandleMessage(workerproc.WithParsedMessage(ctx, decoded), proc, body); err != nil {
		fields["error"] = err.Error()
		var procErr workerproc.ErrProcess
		if errors.As(err, &procErr) && !procErr.Retryable() {
			telemetry.Error("worker.export.discarded", fields)
			metrics.IncWorkerEvent(decoded.Type, "discarded")
			return true
		}
		telemetry.Error("worker.export.failed", fields)
		metrics.IncWorkerEvent(decoded.Type, "failed")
		return false
	}

	telemetry.Info("worker.export.completed", fields)
	metrics.IncWorkerEvent(decoded.Type, "completed")
	return true
}

func receiveCount(msg sqstypes.Message) int {
	raw := msg.Attributes["ApproximateReceiveCount"]
	if raw == "" {
		return 0
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return parsed
}

func envInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return val
}
