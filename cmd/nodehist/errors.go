package main

import "errors"

var errPartialFailure = errors.New("one or more node stores could not be read")
