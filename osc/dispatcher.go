package osc

import (
	"fmt"
	"strings"
)

// Method is an interface for OSC Methods.
type Method interface {
	HandleMessage(msg *Message)
}

// MethodFunc implements the Method interface. Type definition for an OSC Method function.
type MethodFunc func(msg *Message)

// HandleMessage calls itself with the given OSC Message. Implements the Method interface.
func (f MethodFunc) HandleMessage(msg *Message) {
	f(msg)
}

// Dispatcher routes received messages to the Method registered for their
// exact address. Messages without a registered Method go to the fallback, if
// one is set.
type Dispatcher struct {
	methods  map[string]Method
	fallback Method
}

// AddMethod adds a new OSC Method for the given OSC Address.
func (d *Dispatcher) AddMethod(addr string, method Method) error {
	if d.methods == nil {
		d.methods = make(map[string]Method)
	}

	if !strings.HasPrefix(addr, "/") {
		return fmt.Errorf("AddMethod: %q: %w", addr, ErrInvalidAddress)
	}

	if strings.ContainsAny(addr, "*?,[]{}# ") {
		return fmt.Errorf("AddMethod: OSC Method may not contain any characters in \"*?,[]{}# \"")
	}

	if _, ok := d.methods[addr]; ok {
		return fmt.Errorf("AddMethod: OSC Method exists already")
	}

	d.methods[addr] = method
	return nil
}

// AddMethodFunc allows you to just pass a MethodFunc.
func (d *Dispatcher) AddMethodFunc(addr string, method MethodFunc) error {
	return d.AddMethod(addr, method)
}

// SetFallback sets the Method that receives messages with no exact match.
func (d *Dispatcher) SetFallback(method Method) {
	d.fallback = method
}

// Dispatch hands msg to its Method. It reports whether any Method ran.
func (d *Dispatcher) Dispatch(msg *Message) bool {
	if method, ok := d.methods[msg.Address]; ok {
		method.HandleMessage(msg)
		return true
	}
	if d.fallback != nil {
		d.fallback.HandleMessage(msg)
		return true
	}
	return false
}
