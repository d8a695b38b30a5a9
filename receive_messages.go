package main

import (
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/sqs"
)

func buildReceiveMessagesInput(dlqUrl string, opts options, maxNumberOfMessages int64) *sqs.ReceiveMessageInput {
	input := &sqs.ReceiveMessageInput{
		QueueUrl:              aws.String(dlqUrl),
		WaitTimeSeconds:       aws.Int64(opts.waitTimeSeconds),
		MaxNumberOfMessages:   aws.Int64(maxNumberOfMessages),
		MessageAttributeNames: []*string{aws.String(sqs.QueueAttributeNameAll)},
	}

	if opts.visibilityTimeout > 0 {
		input.VisibilityTimeout = aws.Int64(opts.visibilityTimeout)
	}

	if opts.withAttributes {
		input.AttributeNames = []*string{
			aws.String(sqs.MessageSystemAttributeNameMessageGroupId),
			aws.String(sqs.MessageSystemAttributeNameMessageDeduplicationId),
		}
	}

	return input
}

func receiveMessages(ctx aws.Context, svc sqsAPI, input *sqs.ReceiveMessageInput) ([]*sqs.Message, error) {
	output, err := svc.ReceiveMessageWithContext(ctx, input)
	if err != nil {
		return nil, parseAwsError("Failed to receive messages from "+aws.StringValue(input.QueueUrl), err)
	}

	return output.Messages, nil
}
