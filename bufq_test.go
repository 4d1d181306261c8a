// File: bufq_test.go
// Author: momentics <momentics@gmail.com>
//
// Facade smoke tests exercising the whole surface through one import.

package bufq_test

import (
	"errors"
	"testing"

	"github.com/momentics/bufq"
)

func TestFacadeRoundTrip(t *testing.T) {
	q := bufq.New(bufq.DefaultOptions())
	q.AppendBytes([]byte("hello "))

	b := bufq.NewBuffer(8)
	copy(b.WritableTail(), "world")
	b.ExtendTail(5)
	q.Append(b, true, false)

	if got := string(q.AppendTo(nil)); got != "hello world" {
		t.Errorf("content = %q", got)
	}
	if q.Len() != 11 {
		t.Errorf("length = %d", q.Len())
	}

	prefix, err := q.Split(5)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	var out []byte
	prefix.ForEachRange(func(r []byte) { out = append(out, r...) })
	if string(out) != "hello" {
		t.Errorf("prefix = %q", out)
	}

	if _, err := q.Split(100); !errors.Is(err, bufq.ErrUnderflow) {
		t.Errorf("underflow error = %v", err)
	}
}

func TestFacadeWrap(t *testing.T) {
	q := bufq.New(bufq.DefaultOptions())
	if err := q.WrapBytes([]byte("zero-copy"), 4); err != nil {
		t.Fatal(err)
	}
	if got := string(q.AppendTo(nil)); got != "zero-copy" {
		t.Errorf("content = %q", got)
	}
	if !bufq.Wrap([]byte("x")).IsShared() {
		t.Error("wrapped nodes must report shared")
	}
}
