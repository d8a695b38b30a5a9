package main

import (
	"strconv"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/sqs"
)

// buildDeleteMessageEntries numbers entries by their position in messages, so
// results can be mapped back without relying on message ids being unique.
func buildDeleteMessageEntries(messages []*sqs.Message) []*sqs.DeleteMessageBatchRequestEntry {
	entries := make([]*sqs.DeleteMessageBatchRequestEntry, 0, len(messages))
	for i, message := range messages {
		entries = append(entries, &sqs.DeleteMessageBatchRequestEntry{
			Id:            aws.String(strconv.Itoa(i)),
			ReceiptHandle: message.ReceiptHandle,
		})
	}

	return entries
}

func deleteReprocessedMessages(ctx aws.Context, svc sqsAPI, dlqUrl string, reprocessedMessages []*sqs.Message) (*sqs.DeleteMessageBatchOutput, error) {
	output, err := svc.DeleteMessageBatchWithContext(ctx, &sqs.DeleteMessageBatchInput{
		Entries:  buildDeleteMessageEntries(reprocessedMessages),
		QueueUrl: aws.String(dlqUrl),
	})
	if err != nil {
		return nil, parseAwsError("Failed to delete messages from "+dlqUrl, err)
	}

	return output, nil
}

// entryMessage maps a batch result id back to the message it was built from.
func entryMessage(messages []*sqs.Message, id *string) (*sqs.Message, bool) {
	i, err := strconv.Atoi(aws.StringValue(id))
	if err != nil || i < 0 || i >= len(messages) {
		return nil, false
	}

	return messages[i], true
}
