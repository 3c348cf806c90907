package io

import (
	"errors"

	"github.com/ezrec/sacrisc/translate"
)

var f = translate.From

var (
	// Console errors
	ErrNoInput     = errors.New(f("console has no input"))
	ErrNoOutput    = errors.New(f("console has no output"))
	ErrInputNumber = errors.New(f("input is not a number"))

	// Depot errors
	ErrImageName    = errors.New(f("invalid image name"))
	ErrImageMissing = errors.New(f("image missing"))
)
