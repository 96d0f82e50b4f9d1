package mainthread

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dm-vev/bluemap/server/text"
	"github.com/dm-vev/bluemap/server/world"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueRunsInOrderOnOneGoroutine(t *testing.T) {
	q := NewQueue(4, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go q.Run(ctx)

	var order []int
	var active atomic.Int32
	var last <-chan struct{}
	for i := 0; i < 100; i++ {
		last = q.Exec(func() {
			if active.Add(1) != 1 {
				t.Errorf("tasks overlapped")
			}
			order = append(order, i)
			active.Add(-1)
		})
	}
	waitClosed(t, last)
	require.Len(t, order, 100)
	for i, v := range order {
		assert.Equal(t, i, v)
	}
}

func TestQueueSurvivesPanics(t *testing.T) {
	q := NewQueue(1, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go q.Run(ctx)

	waitClosed(t, q.Exec(func() { panic("boom") }))
	ran := false
	waitClosed(t, q.Exec(func() { ran = true }))
	assert.True(t, ran)
}

func TestQueueClose(t *testing.T) {
	q := NewQueue(8, nil)
	ctx, cancel := context.WithCancel(context.Background())
	go q.Run(ctx)
	cancel()
	waitClosed(t, q.Done())

	ran := false
	waitClosed(t, q.Exec(func() { ran = true }))
	assert.False(t, ran, "functions queued after close must be dropped")
	waitClosed(t, q.Exec(nil))
	q.Close()
}

func TestExecFromMainThread(t *testing.T) {
	q := NewQueue(1, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go q.Run(ctx)

	var order []int
	var nested []<-chan struct{}
	waitClosed(t, q.Exec(func() {
		for i := range 10 {
			nested = append(nested, q.Exec(func() { order = append(order, i) }))
		}
	}))
	for _, c := range nested {
		waitClosed(t, c)
	}
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, order)
}

func TestQueueDrainsOnClose(t *testing.T) {
	q := NewQueue(1, nil)
	ran := 0
	var pending []<-chan struct{}
	for range 5 {
		pending = append(pending, q.Exec(func() { ran++ }))
	}
	q.Close()
	q.Run(context.Background())

	for _, c := range pending {
		waitClosed(t, c)
	}
	assert.Equal(t, 5, ran)
}

type recordingSource struct {
	messages chan text.Text
}

func (s recordingSource) SendMessage(t text.Text)    { s.messages <- t }
func (recordingSource) HasPermission(string) bool    { return false }
func (recordingSource) Position() (mgl64.Vec3, bool) { return mgl64.Vec3{}, false }
func (recordingSource) World() (*world.World, bool)  { return nil, false }

func TestDeliverFromBackground(t *testing.T) {
	q := NewQueue(1, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go q.Run(ctx)

	src := recordingSource{messages: make(chan text.Text, 1)}
	done := make(chan struct{})
	go func() {
		defer close(done)
		<-Deliver(q, src, text.Of("render finished"))
	}()
	waitClosed(t, done)
	select {
	case msg := <-src.messages:
		assert.Equal(t, "render finished", msg.Plain())
	default:
		t.Fatal("message was not delivered")
	}
}

func waitClosed(t *testing.T, c <-chan struct{}) {
	t.Helper()
	select {
	case <-c:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for channel")
	}
}
