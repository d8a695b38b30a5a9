package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// confirm asks before anything is deleted. Only "y" or "yes" proceeds.
func confirm(in io.Reader, out io.Writer, dlqUrl, mainQueueUrl string, approximate int) bool {
	count := "an unknown number of"
	if approximate >= 0 {
		count = fmt.Sprintf("about %d", approximate)
	}

	warn := color.New(color.FgYellow, color.Bold)
	warn.Fprintf(out, "This will move %s messages from %s to %s and delete them from the DLQ.\n", count, dlqUrl, mainQueueUrl)
	warn.Fprintln(out, "Messages that fail to send are deleted too unless --keep-unsent is set.")
	fmt.Fprint(out, "Do you want to continue (y/n)? ")

	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}

	return false
}
