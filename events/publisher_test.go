package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"

	"clipchat/media"
)

func TestPublishEncodesEvent(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(raw []byte) error {
		var ev media.Event
		if err := json.Unmarshal(raw, &ev); err != nil {
			return err
		}
		if ev.JobID != "job-1" || ev.Op != "trim_video" || ev.Status != "succeeded" {
			t.Errorf("event = %+v", ev)
		}
		return nil
	})

	p := newPublisherWith(producer, "clipchat.jobs")
	p.Publish(context.Background(), media.Event{JobID: "job-1", Op: "trim_video", Status: "succeeded"})

	if err := p.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestPublishSwallowsBrokerErrors(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	p := newPublisherWith(producer, "clipchat.jobs")
	// Must not panic or propagate; the job outcome is independent of the
	// event stream.
	p.Publish(context.Background(), media.Event{JobID: "job-2", Op: "transition", Status: "failed"})

	if err := p.Close(); err != nil {
		t.Fatal(err)
	}
}
