// Package sched provides the two fixed worker pools the pipeline schedules
// work on: a CPU-bound "main" context sized to the core count, and a
// single-slot "io" context that serializes file reads against the
// SER reader's single-owner cursor.
package sched

import (
	"fmt"
	"runtime"
	"sync"
)

// Context is a bounded fork-join pool: Async submits fire-and-forget work
// gated by a capacity semaphore, and Blocking opens a scope that joins
// every task Async'd within it before returning.
type Context struct {
	name string
	sem  chan struct{}

	mu      sync.Mutex
	handler func(error)
}

// NewContext creates a named context with the given concurrency capacity.
// A capacity of 1 fully serializes submissions, which is how the io
// context is used against the SER reader's exclusive cursor.
func NewContext(name string, capacity int) *Context {
	if capacity < 1 {
		capacity = 1
	}
	return &Context{
		name: name,
		sem:  make(chan struct{}, capacity),
	}
}

// Main returns a context sized to the number of logical CPUs, for
// CPU-bound work: reconstruction, rotation, geometry fitting.
func Main() *Context {
	return NewContext("main", runtime.NumCPU())
}

// IO returns a single-slot context for sequential file reads.
func IO() *Context {
	return NewContext("io", 1)
}

// SetUncaughtExceptionHandler installs h to receive errors returned or
// panics raised by tasks submitted to this context. The default handler
// discards errors.
func (c *Context) SetUncaughtExceptionHandler(h func(error)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handler = h
}

func (c *Context) handleUncaught(err error) {
	c.mu.Lock()
	h := c.handler
	c.mu.Unlock()
	if h != nil {
		h(err)
	}
}

// Scope joins every task Async'd within it once its owning Blocking call
// returns.
type Scope struct {
	ctx *Context
	wg  sync.WaitGroup
}

// Async submits task for execution, blocking the caller only long enough
// to acquire a capacity slot. task's error, or any panic it raises, is
// routed to the context's uncaught-exception handler; it never terminates
// the process.
func (s *Scope) Async(task func() error) {
	s.ctx.sem <- struct{}{}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() { <-s.ctx.sem }()
		defer func() {
			if r := recover(); r != nil {
				s.ctx.handleUncaught(fmt.Errorf("sched: task panicked: %v", r))
			}
		}()
		if err := task(); err != nil {
			s.ctx.handleUncaught(err)
		}
	}()
}

// Blocking opens a new scope, runs body against it, and waits for every
// task the body submitted via Async to finish before returning.
func (c *Context) Blocking(body func(scope *Scope)) {
	scope := &Scope{ctx: c}
	body(scope)
	scope.wg.Wait()
}
