// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jsax

// A state records what the parser expects next at one container depth. The
// stack of states is the only encoding of "expected next token": there is no
// recursion, so parser stack depth is bounded by container nesting rather
// than input length.
type state byte

const (
	stateStart state = iota
	stateParseComplete
	stateParseError
	stateLexicalError
	stateMapStart
	stateMapSep
	stateMapNeedVal
	stateMapGotVal
	stateMapNeedKey
	stateArrayStart
	stateArrayGotVal
	stateArrayNeedVal
	stateGotValue
	stateHandlerCancel
	stateHandlerError
)

// A stateStack is a LIFO of state tags. It is never empty while the parser is
// usable: construction and Reset leave exactly [stateStart] on it, container
// entry pushes, container exit pops.
type stateStack struct {
	s []state
}

func (k *stateStack) top() state      { return k.s[len(k.s)-1] }
func (k *stateStack) push(v state)    { k.s = append(k.s, v) }
func (k *stateStack) pop()            { k.s = k.s[:len(k.s)-1] }
func (k *stateStack) replace(v state) { k.s[len(k.s)-1] = v }
func (k *stateStack) clear()          { k.s = k.s[:0] }
func (k *stateStack) depth() int      { return len(k.s) }
