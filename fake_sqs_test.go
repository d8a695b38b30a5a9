package main

import (
	"strconv"

	"github.com/apex/log"
	"github.com/apex/log/handlers/memory"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/sqs"
)

//
// Fakes
//

// fakeSQS serves receives from a script of batches and records every call.
// Once the script is exhausted receives come back empty.
type fakeSQS struct {
	batches    [][]*sqs.Message
	recvErrAt  int // 1-based receive call that fails, 0 never
	recvErr    error
	recvInputs []*sqs.ReceiveMessageInput

	sendErr map[string]error // by body
	sent    []*sqs.SendMessageInput

	// failDelete lists positions within each delete call reported as failed.
	failDelete map[int]bool
	delErr     error
	deletes    []*sqs.DeleteMessageBatchInput

	queueUrls  map[string]string
	urlErr     error
	urlLookups []string

	attributes map[string]*string
	attrErr    error
}

func newFakeSQS(batches ...[]*sqs.Message) *fakeSQS {
	return &fakeSQS{batches: batches}
}

func (f *fakeSQS) GetQueueUrlWithContext(_ aws.Context, in *sqs.GetQueueUrlInput, _ ...request.Option) (*sqs.GetQueueUrlOutput, error) {
	name := aws.StringValue(in.QueueName)
	f.urlLookups = append(f.urlLookups, name)
	if f.urlErr != nil {
		return nil, f.urlErr
	}
	url, ok := f.queueUrls[name]
	if !ok {
		return nil, awserr.New(sqs.ErrCodeQueueDoesNotExist, "The specified queue does not exist.", nil)
	}
	return &sqs.GetQueueUrlOutput{QueueUrl: aws.String(url)}, nil
}

func (f *fakeSQS) GetQueueAttributesWithContext(_ aws.Context, in *sqs.GetQueueAttributesInput, _ ...request.Option) (*sqs.GetQueueAttributesOutput, error) {
	if f.attrErr != nil {
		return nil, f.attrErr
	}
	return &sqs.GetQueueAttributesOutput{Attributes: f.attributes}, nil
}

func (f *fakeSQS) ReceiveMessageWithContext(_ aws.Context, in *sqs.ReceiveMessageInput, _ ...request.Option) (*sqs.ReceiveMessageOutput, error) {
	f.recvInputs = append(f.recvInputs, in)
	if f.recvErrAt > 0 && len(f.recvInputs) == f.recvErrAt {
		return nil, f.recvErr
	}
	if len(f.batches) == 0 {
		return &sqs.ReceiveMessageOutput{}, nil
	}
	batch := f.batches[0]
	f.batches = f.batches[1:]
	return &sqs.ReceiveMessageOutput{Messages: batch}, nil
}

func (f *fakeSQS) SendMessageWithContext(_ aws.Context, in *sqs.SendMessageInput, _ ...request.Option) (*sqs.SendMessageOutput, error) {
	f.sent = append(f.sent, in)
	if err, ok := f.sendErr[aws.StringValue(in.MessageBody)]; ok {
		return nil, err
	}
	return &sqs.SendMessageOutput{MessageId: aws.String("copy-" + strconv.Itoa(len(f.sent)))}, nil
}

func (f *fakeSQS) DeleteMessageBatchWithContext(_ aws.Context, in *sqs.DeleteMessageBatchInput, _ ...request.Option) (*sqs.DeleteMessageBatchOutput, error) {
	f.deletes = append(f.deletes, in)
	if f.delErr != nil {
		return nil, f.delErr
	}

	out := &sqs.DeleteMessageBatchOutput{}
	for i, entry := range in.Entries {
		if f.failDelete[i] {
			out.Failed = append(out.Failed, &sqs.BatchResultErrorEntry{
				Id:          entry.Id,
				Code:        aws.String(sqs.ErrCodeReceiptHandleIsInvalid),
				Message:     aws.String("boom"),
				SenderFault: aws.Bool(true),
			})
			continue
		}
		out.Successful = append(out.Successful, &sqs.DeleteMessageBatchResultEntry{Id: entry.Id})
	}
	return out, nil
}

func (f *fakeSQS) sentBodies() []string {
	var bodies []string
	for _, in := range f.sent {
		bodies = append(bodies, aws.StringValue(in.MessageBody))
	}
	return bodies
}

func (f *fakeSQS) deletedHandles() [][]string {
	var handles [][]string
	for _, in := range f.deletes {
		var batch []string
		for _, entry := range in.Entries {
			batch = append(batch, aws.StringValue(entry.ReceiptHandle))
		}
		handles = append(handles, batch)
	}
	return handles
}

//
// Helpers
//

func newMessages(prefix string, n int) []*sqs.Message {
	messages := make([]*sqs.Message, 0, n)
	for i := 0; i < n; i++ {
		suffix := prefix + "-" + strconv.Itoa(i)
		messages = append(messages, &sqs.Message{
			MessageId:     aws.String("id-" + suffix),
			ReceiptHandle: aws.String("rh-" + suffix),
			Body:          aws.String("body-" + suffix),
		})
	}
	return messages
}

func newMemoryLogger() (*log.Logger, *memory.Handler) {
	h := memory.New()
	return &log.Logger{Handler: h, Level: log.DebugLevel}, h
}

func entriesWith(h *memory.Handler, level log.Level, message string) []*log.Entry {
	var entries []*log.Entry
	for _, e := range h.Entries {
		if e.Level == level && e.Message == message {
			entries = append(entries, e)
		}
	}
	return entries
}
