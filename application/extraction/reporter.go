package extraction

import (
	"context"
	"sync"
)

// MessageKind distinguishes progress updates from the final result
type MessageKind string

const (
	MessageProgress MessageKind = "progress"
	MessageResult   MessageKind = "result"
)

// Message is one status update travelling from a job's worker to the display
type Message struct {
	JobID   string      `json:"jobId"`
	Kind    MessageKind `json:"kind"`
	Percent int         `json:"percent,omitempty"`
	Text    string      `json:"text,omitempty"`
}

// ChannelReporter implements audio.Reporter by sending messages on a channel.
// It has a single producer (the job's worker) and the channel a single consumer.
type ChannelReporter struct {
	jobID string
	ch    chan Message
	once  sync.Once
}

// NewChannelReporter creates a reporter with the given channel buffer size
func NewChannelReporter(jobID string, buffer int) *ChannelReporter {
	return &ChannelReporter{
		jobID: jobID,
		ch:    make(chan Message, buffer),
	}
}

// Messages returns the receive side of the channel
func (r *ChannelReporter) Messages() <-chan Message {
	return r.ch
}

func (r *ChannelReporter) OnProgress(percent int) {
	r.ch <- Message{JobID: r.jobID, Kind: MessageProgress, Percent: percent}
}

func (r *ChannelReporter) OnResult(message string) {
	r.ch <- Message{JobID: r.jobID, Kind: MessageResult, Text: message}
}

// Close tells the consumer no more messages follow. Call it after the job returns.
func (r *ChannelReporter) Close() {
	r.once.Do(func() { close(r.ch) })
}

// Drain applies every message from ch in order until ch is closed or ctx is done.
// apply runs on the calling goroutine only.
func Drain(ctx context.Context, ch <-chan Message, apply func(Message)) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			apply(msg)
		}
	}
}
