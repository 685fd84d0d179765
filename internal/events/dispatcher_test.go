package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/OpenMSDQ/msdq/internal/workflow/model"
)

type channelSink struct {
	name     string
	received chan Event
	err      error
}

func newChannelSink(name string) *channelSink {
	return &channelSink{name: name, received: make(chan Event, 16)}
}

func (s *channelSink) Name() string { return s.name }

func (s *channelSink) Deliver(ctx context.Context, event Event) error {
	s.received <- event
	return s.err
}

func waitForEvent(t *testing.T, sink *channelSink) Event {
	t.Helper()
	select {
	case event := <-sink.received:
		return event
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event delivery")
		return Event{}
	}
}

func TestDispatcher_DeliversToAllSinks(t *testing.T) {
	first := newChannelSink("first")
	second := newChannelSink("second")

	dispatcher := NewDispatcher(16, first, second)
	dispatcher.Start()
	defer dispatcher.Stop()

	workflowID := uuid.New()
	dispatcher.Publish(StateChanged(workflowID, model.WorkflowStatePendingProject, model.WorkflowStatePendingPlant, "project.user"))

	got := waitForEvent(t, first)
	assert.Equal(t, TypeStateChanged, got.Type)
	assert.Equal(t, workflowID, got.WorkflowID)
	assert.Equal(t, model.WorkflowStatePendingProject, got.FromState)
	assert.Equal(t, model.WorkflowStatePendingPlant, got.ToState)

	got = waitForEvent(t, second)
	assert.Equal(t, workflowID, got.WorkflowID)
}

func TestDispatcher_FailingSinkDoesNotBlockOthers(t *testing.T) {
	failing := newChannelSink("failing")
	failing.err = errors.New("delivery refused")
	healthy := newChannelSink("healthy")

	dispatcher := NewDispatcher(16, failing, healthy)
	dispatcher.Start()
	defer dispatcher.Stop()

	queryID := uuid.New()
	dispatcher.Publish(QueryRaised(uuid.New(), queryID, model.QueryTeamSHE, "plant.user"))

	waitForEvent(t, failing)
	got := waitForEvent(t, healthy)
	assert.Equal(t, TypeQueryRaised, got.Type)
	assert.NotNil(t, got.QueryID)
	assert.Equal(t, queryID, *got.QueryID)
}

func TestDispatcher_PublishNeverBlocks(t *testing.T) {
	// Not started, buffer of one: the second publish must drop, not block.
	dispatcher := NewDispatcher(1)

	done := make(chan struct{})
	go func() {
		defer close(done)
		dispatcher.Publish(StateChanged(uuid.New(), model.WorkflowStatePendingProject, model.WorkflowStatePendingPlant, "a"))
		dispatcher.Publish(StateChanged(uuid.New(), model.WorkflowStatePendingPlant, model.WorkflowStatePendingSHE, "a"))
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a full buffer")
	}
}

func TestDispatcher_StopWaitsForListener(t *testing.T) {
	sink := newChannelSink("sink")
	dispatcher := NewDispatcher(16, sink)
	dispatcher.Start()

	dispatcher.Publish(QueryResolved(uuid.New(), uuid.New(), model.QueryTeamRegulatory, "regulatory.user"))
	waitForEvent(t, sink)

	done := make(chan struct{})
	go func() {
		dispatcher.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return")
	}
}
