package main

import (
	"github.com/pkg/errors"
	"gopkg.in/alecthomas/kingpin.v2"
)

const (
	maxBatchSize         = 10
	maxWaitTimeSeconds   = 20
	maxVisibilityTimeout = 43200
)

type config struct {
	dlqName   string
	mainQueue string
	region    string
	endpoint  string

	opts options

	assumeYes bool
	logLevel  string
	logFormat string
}

func newApplication(c *config) *kingpin.Application {
	app := kingpin.New("sqsrequeue", "Moves every message of a dead letter queue back to a queue, deleting it from the DLQ.")
	app.UsageTemplate(kingpin.CompactUsageTemplate)

	app.Flag("source", "The dead letter queue (name or URL) to move messages from.").Short('s').Required().StringVar(&c.dlqName)
	app.Flag("destination", "The queue (name or URL) to move messages to.").Short('d').Required().StringVar(&c.mainQueue)
	app.Flag("region", "The AWS region the queues are created in.").Short('r').Envar("AWS_REGION").Default("us-east-1").StringVar(&c.region)
	app.Flag("endpoint", "Custom SQS endpoint, e.g. a local emulator.").StringVar(&c.endpoint)

	app.Flag("batch-size", "Messages requested per receive (1-10).").Short('b').Default("10").Int64Var(&c.opts.batchSize)
	app.Flag("wait-time", "Receive wait time in seconds (0-20).").Short('w').Default("1").Int64Var(&c.opts.waitTimeSeconds)
	app.Flag("visibility-timeout", "Visibility timeout in seconds for received messages, 0 keeps the queue default.").Default("0").Int64Var(&c.opts.visibilityTimeout)
	app.Flag("max-messages", "Stop after this many messages, 0 drains the whole queue.").Short('m').Default("0").IntVar(&c.opts.maxMessages)
	app.Flag("keep-unsent", "Leave messages whose send failed in the DLQ instead of deleting them.").BoolVar(&c.opts.keepUnsent)
	app.Flag("with-attributes", "Copy message attributes and FIFO group/deduplication ids to the destination.").BoolVar(&c.opts.withAttributes)

	app.Flag("yes", "Do not ask for confirmation.").Short('y').BoolVar(&c.assumeYes)
	app.Flag("log-level", "Log level.").Default("info").EnumVar(&c.logLevel, "debug", "info", "warn", "error")
	app.Flag("log-format", "Log format.").Default("cli").EnumVar(&c.logFormat, "cli", "text", "json")

	return app
}

func parseConfig(args []string) (config, error) {
	var c config
	if _, err := newApplication(&c).Parse(args); err != nil {
		return config{}, err
	}

	if err := c.validate(); err != nil {
		return config{}, err
	}

	return c, nil
}

func (c config) validate() error {
	if c.opts.batchSize < 1 || c.opts.batchSize > maxBatchSize {
		return errors.Errorf("batch size must be between 1 and %d, got %d", maxBatchSize, c.opts.batchSize)
	}
	if c.opts.waitTimeSeconds < 0 || c.opts.waitTimeSeconds > maxWaitTimeSeconds {
		return errors.Errorf("wait time must be between 0 and %d seconds, got %d", maxWaitTimeSeconds, c.opts.waitTimeSeconds)
	}
	if c.opts.visibilityTimeout < 0 || c.opts.visibilityTimeout > maxVisibilityTimeout {
		return errors.Errorf("visibility timeout must be between 0 and %d seconds, got %d", maxVisibilityTimeout, c.opts.visibilityTimeout)
	}
	if c.opts.maxMessages < 0 {
		return errors.Errorf("max messages must not be negative, got %d", c.opts.maxMessages)
	}
	if c.dlqName == c.mainQueue {
		return errors.New("source and destination must be different queues")
	}

	return nil
}
