package main

import (
	"context"
	"io"
	"os"

	"github.com/apex/log"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/sqs"
	"github.com/fatih/color"
	"github.com/pkg/errors"
	"gopkg.in/alecthomas/kingpin.v2"
)

func main() {
	cfg, err := parseConfig(os.Args[1:])
	if err != nil {
		kingpin.Fatalf("%s", err)
	}

	logger, err := newLogger(os.Stderr, cfg.logLevel, cfg.logFormat)
	if err != nil {
		kingpin.Fatalf("%s", err)
	}

	sess, err := session.NewSessionWithOptions(session.Options{
		Config:            awsConfig(cfg),
		SharedConfigState: session.SharedConfigEnable,
	})
	if err != nil {
		logger.WithError(err).Fatalf("unable to create AWS session for region %s", cfg.region)
	}

	if err := run(context.Background(), sqs.New(sess), cfg, os.Stdin, os.Stdout, logger); err != nil {
		logger.WithError(err).Fatal("requeue failed")
	}
}

func awsConfig(cfg config) aws.Config {
	c := aws.Config{Region: aws.String(cfg.region)}
	if cfg.endpoint != "" {
		c.Endpoint = aws.String(cfg.endpoint)
	}

	return c
}

// run resolves both queues, passes the confirmation gate unless --yes was
// given, and drains the DLQ.
func run(ctx context.Context, svc sqsAPI, cfg config, in io.Reader, out io.Writer, logger log.Interface) error {
	dlqUrl, err := getQueueUrl(ctx, svc, cfg.dlqName)
	if err != nil {
		return errors.Wrap(err, "source")
	}

	mainQueueUrl, err := getQueueUrl(ctx, svc, cfg.mainQueue)
	if err != nil {
		return errors.Wrap(err, "destination")
	}

	if dlqUrl == mainQueueUrl {
		return errors.Errorf("source and destination resolve to the same queue %s", dlqUrl)
	}

	ctxLog := logger.WithFields(log.Fields{"source": dlqUrl, "destination": mainQueueUrl})

	approximate, err := getApproximateNumberOfMessages(ctx, svc, dlqUrl)
	if err != nil {
		ctxLog.WithError(err).Warn("could not read DLQ depth")
		approximate = -1
	} else {
		ctxLog.WithField("approximate", approximate).Info("DLQ resolved")
	}

	if !cfg.assumeYes && !confirm(in, out, dlqUrl, mainQueueUrl, approximate) {
		ctxLog.Info("aborted, nothing was moved")
		return nil
	}

	color.New(color.FgCyan).Fprintln(out, "Starting to move messages...")

	st, err := newRequeuer(svc, dlqUrl, mainQueueUrl, cfg.opts, logger).drain(ctx)
	if err != nil {
		ctxLog.WithFields(st).Error("stopped before the DLQ was drained")
		return err
	}

	ctxLog.WithFields(st).Info("done")
	color.New(color.FgCyan).Fprintf(out, "All done! Moved %d of %d messages.\n", st.Sent, st.Received)

	return nil
}
