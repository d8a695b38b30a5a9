package main

import (
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/sqs"
	"github.com/pkg/errors"
)

const approximateNumberOfMessages = "ApproximateNumberOfMessages"

func isQueueUrl(ref string) bool {
	return strings.HasPrefix(ref, "https://") || strings.HasPrefix(ref, "http://")
}

// getQueueUrl accepts either a queue name or a queue URL. URLs are returned
// untouched, names are looked up.
func getQueueUrl(ctx aws.Context, svc sqsAPI, queueRef string) (string, error) {
	queueRef = strings.TrimSpace(queueRef)
	if queueRef == "" {
		return "", errors.New("empty queue reference")
	}
	if isQueueUrl(queueRef) {
		return queueRef, nil
	}

	resp, err := svc.GetQueueUrlWithContext(ctx, &sqs.GetQueueUrlInput{
		QueueName: aws.String(queueRef),
	})
	if err != nil {
		return "", parseAwsError("Failed to resolve queue "+queueRef, err)
	}
	if aws.StringValue(resp.QueueUrl) == "" {
		return "", errors.Errorf("no url returned for queue %s", queueRef)
	}

	return *resp.QueueUrl, nil
}

func getApproximateNumberOfMessages(ctx aws.Context, svc sqsAPI, queueUrl string) (int, error) {
	queueAttributes, err := svc.GetQueueAttributesWithContext(ctx, &sqs.GetQueueAttributesInput{
		QueueUrl:       aws.String(queueUrl),
		AttributeNames: []*string{aws.String(approximateNumberOfMessages)},
	})
	if err != nil {
		return 0, parseAwsError("Failed to resolve attributes of "+queueUrl, err)
	}

	value, ok := queueAttributes.Attributes[approximateNumberOfMessages]
	if !ok || value == nil {
		return 0, nil
	}

	total, err := strconv.Atoi(*value)
	if err != nil {
		return 0, errors.Wrapf(err, "bad %s for %s", approximateNumberOfMessages, queueUrl)
	}

	return total, nil
}
