package main

import (
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/sqs"
)

// buildSendMessageInput forwards the body only, unless withAttributes is set,
// in which case message attributes and the FIFO group and deduplication ids
// travel along as well.
func buildSendMessageInput(mainQueueUrl string, message *sqs.Message, withAttributes bool) *sqs.SendMessageInput {
	input := &sqs.SendMessageInput{
		QueueUrl:    aws.String(mainQueueUrl),
		MessageBody: message.Body,
	}

	if !withAttributes {
		return input
	}

	if len(message.MessageAttributes) > 0 {
		input.MessageAttributes = message.MessageAttributes
	}

	if messageGroupId, ok := message.Attributes[sqs.MessageSystemAttributeNameMessageGroupId]; ok {
		input.MessageGroupId = messageGroupId
	}

	if messageDeduplicationId, ok := message.Attributes[sqs.MessageSystemAttributeNameMessageDeduplicationId]; ok {
		input.MessageDeduplicationId = messageDeduplicationId
	}

	return input
}

// reprocessMessage sends one message to the destination and returns the id
// assigned to the copy.
func reprocessMessage(ctx aws.Context, svc sqsAPI, mainQueueUrl string, message *sqs.Message, withAttributes bool) (string, error) {
	output, err := svc.SendMessageWithContext(ctx, buildSendMessageInput(mainQueueUrl, message, withAttributes))
	if err != nil {
		return "", parseAwsError("Failed to send message "+aws.StringValue(message.MessageId)+" to "+mainQueueUrl, err)
	}

	return aws.StringValue(output.MessageId), nil
}
