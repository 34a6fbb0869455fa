package framework

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCapturingLoggerRecordsMessages(t *testing.T) {
	var l CapturingLogger
	l.Printf("a %d", 1)
	l.Println("b", 2)
	assert.Equal(t, []string{"a 1", "b 2"}, l.Output().Messages())
}

func TestCapturingLoggerRedirectsToChild(t *testing.T) {
	var parent, child CapturingLogger
	parent.Printf("before")
	parent.AddChildLogger(&child)
	parent.Printf("during")
	parent.RemoveChildLogger(&child)
	parent.Printf("after")

	assert.Equal(t, []string{"before", "after"}, parent.Output().Messages())
	assert.Equal(t, []string{"before", "during"}, child.Output().Messages())
}

func TestLoggerWithPrefix(t *testing.T) {
	var l CapturingLogger
	p := LoggerWithPrefix(&l, "[x] ")
	p.Printf("hello %s", "there")
	assert.Equal(t, []string{"[x] hello there"}, l.Output().Messages())

	assert.Equal(t, NullLogger(), LoggerWithPrefix(nil, "[x] "))
}

func TestLoggerFunc(t *testing.T) {
	var lines []string
	l := LoggerFunc(func(message string, args ...interface{}) {
		lines = append(lines, fmt.Sprintf(message, args...))
	})
	l.Printf("n=%d", 3)
	l.Println("a", "b")
	assert.Equal(t, []string{"n=3", "a b"}, lines)
}
