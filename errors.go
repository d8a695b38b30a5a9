package main

import (
	"fmt"

	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/pkg/errors"
)

// queueError carries a short, human readable message while keeping the
// original error reachable through errors.Cause.
type queueError struct {
	msg   string
	cause error
}

func (e *queueError) Error() string { return e.msg }

func (e *queueError) Cause() error { return e.cause }

func parseAwsError(message string, err error) error {
	if awsErr, ok := errors.Cause(err).(awserr.Error); ok {
		return &queueError{
			msg:   fmt.Sprintf("%s. Error: %s: %s", message, awsErr.Code(), awsErr.Message()),
			cause: err,
		}
	}

	return &queueError{
		msg:   fmt.Sprintf("%s. Error: %s", message, err.Error()),
		cause: err,
	}
}

// awsErrorCode returns the service error code carried by err, or "" when err
// did not come from an AWS API call.
func awsErrorCode(err error) string {
	if awsErr, ok := errors.Cause(err).(awserr.Error); ok {
		return awsErr.Code()
	}

	return ""
}
