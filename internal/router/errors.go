package router

import "errors"

// ErrUnroutableVerdict indicates a verdict outside the canonical set
// reached routing. This is a programming error upstream, not user input.
var ErrUnroutableVerdict = errors.New("unroutable verdict")
