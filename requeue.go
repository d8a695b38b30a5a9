package main

import (
	"context"

	"github.com/apex/log"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/sqs"
)

// sqsAPI is the subset of *sqs.SQS used by the requeuer.
type sqsAPI interface {
	GetQueueUrlWithContext(aws.Context, *sqs.GetQueueUrlInput, ...request.Option) (*sqs.GetQueueUrlOutput, error)
	GetQueueAttributesWithContext(aws.Context, *sqs.GetQueueAttributesInput, ...request.Option) (*sqs.GetQueueAttributesOutput, error)
	ReceiveMessageWithContext(aws.Context, *sqs.ReceiveMessageInput, ...request.Option) (*sqs.ReceiveMessageOutput, error)
	SendMessageWithContext(aws.Context, *sqs.SendMessageInput, ...request.Option) (*sqs.SendMessageOutput, error)
	DeleteMessageBatchWithContext(aws.Context, *sqs.DeleteMessageBatchInput, ...request.Option) (*sqs.DeleteMessageBatchOutput, error)
}

type options struct {
	batchSize         int64
	waitTimeSeconds   int64
	visibilityTimeout int64

	// maxMessages bounds the run; 0 drains until an empty receive.
	maxMessages int

	// keepUnsent leaves messages whose send failed in the DLQ instead of
	// deleting them with the rest of the batch.
	keepUnsent     bool
	withAttributes bool
}

var defaultOptions = options{
	batchSize:       10,
	waitTimeSeconds: 1,
}

type stats struct {
	Batches      int
	Received     int
	Sent         int
	SendFailed   int
	Deleted      int
	DeleteFailed int
}

func (s stats) Fields() log.Fields {
	return log.Fields{
		"batches":       s.Batches,
		"received":      s.Received,
		"sent":          s.Sent,
		"send_failed":   s.SendFailed,
		"deleted":       s.Deleted,
		"delete_failed": s.DeleteFailed,
	}
}

type requeuer struct {
	svc          sqsAPI
	dlqUrl       string
	mainQueueUrl string
	opts         options
	log          *log.Entry
}

func newRequeuer(svc sqsAPI, dlqUrl, mainQueueUrl string, opts options, logger log.Interface) *requeuer {
	if logger == nil {
		logger = log.Log
	}

	return &requeuer{
		svc:          svc,
		dlqUrl:       dlqUrl,
		mainQueueUrl: mainQueueUrl,
		opts:         opts,
		log: logger.WithFields(log.Fields{
			"source":      dlqUrl,
			"destination": mainQueueUrl,
		}),
	}
}

// drain moves messages from the DLQ to the main queue until a receive comes
// back empty. Only receive failures stop it; the stats gathered up to that
// point are returned with the error.
func (r *requeuer) drain(ctx context.Context) (stats, error) {
	var st stats

	for {
		if err := ctx.Err(); err != nil {
			return st, err
		}

		maxNumberOfMessages := r.opts.batchSize
		if r.opts.maxMessages > 0 {
			remaining := r.opts.maxMessages - st.Received
			if remaining <= 0 {
				r.log.WithField("limit", r.opts.maxMessages).Info("message limit reached")
				return st, nil
			}
			if int64(remaining) < maxNumberOfMessages {
				maxNumberOfMessages = int64(remaining)
			}
		}

		messages, err := receiveMessages(ctx, r.svc, buildReceiveMessagesInput(r.dlqUrl, r.opts, maxNumberOfMessages))
		if err != nil {
			r.log.WithError(err).Error("could not receive messages")
			return st, err
		}

		r.log.WithField("count", len(messages)).Info("retrieved messages")
		if len(messages) == 0 {
			return st, nil
		}

		st.Batches++
		st.Received += len(messages)

		toDelete := r.requeueBatch(ctx, messages, &st)
		if len(toDelete) == 0 {
			r.log.WithField("batch", st.Batches).Warn("no message of the batch was sent, nothing to delete")
			continue
		}

		r.deleteBatch(ctx, toDelete, &st)
	}
}

// requeueBatch sends every message in receive order and returns the ones to
// delete from the DLQ.
func (r *requeuer) requeueBatch(ctx context.Context, messages []*sqs.Message, st *stats) []*sqs.Message {
	toDelete := make([]*sqs.Message, 0, len(messages))

	for _, message := range messages {
		ctxLog := r.log.WithField("id", aws.StringValue(message.MessageId))

		newId, err := reprocessMessage(ctx, r.svc, r.mainQueueUrl, message, r.opts.withAttributes)
		if err != nil {
			st.SendFailed++
			ctxLog.WithError(err).WithField("code", awsErrorCode(err)).Warn("failed to send")
			if r.opts.keepUnsent {
				continue
			}
		} else {
			st.Sent++
			ctxLog.WithField("new_id", newId).Debug("sent")
		}

		toDelete = append(toDelete, message)
	}

	return toDelete
}

func (r *requeuer) deleteBatch(ctx context.Context, messages []*sqs.Message, st *stats) {
	output, err := deleteReprocessedMessages(ctx, r.svc, r.dlqUrl, messages)
	if err != nil {
		st.DeleteFailed += len(messages)
		r.log.WithError(err).
			WithField("code", awsErrorCode(err)).
			WithField("count", len(messages)).
			Error("could not delete messages")
		return
	}

	for _, entry := range output.Successful {
		message, ok := entryMessage(messages, entry.Id)
		if !ok {
			r.log.WithField("entry", aws.StringValue(entry.Id)).Warn("unknown entry in delete result")
			continue
		}
		st.Deleted++
		r.log.WithFields(log.Fields{
			"id":             aws.StringValue(message.MessageId),
			"receipt_handle": aws.StringValue(message.ReceiptHandle),
		}).Info("deleted")
	}

	for _, entry := range output.Failed {
		message, ok := entryMessage(messages, entry.Id)
		if !ok {
			r.log.WithField("entry", aws.StringValue(entry.Id)).Warn("unknown entry in delete result")
			continue
		}
		st.DeleteFailed++
		r.log.WithFields(log.Fields{
			"id":             aws.StringValue(message.MessageId),
			"receipt_handle": aws.StringValue(message.ReceiptHandle),
			"code":           aws.StringValue(entry.Code),
			"reason":         aws.StringValue(entry.Message),
		}).Warn("could not delete")
	}
}
