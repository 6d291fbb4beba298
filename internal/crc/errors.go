package crc

import "errors"

var errInsufficientBits = errors.New("crc: insufficient bits in buffer")
