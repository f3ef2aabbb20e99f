package useragent

import "errors"

// ErrEmptyUserAgent is returned when parsing an empty User-Agent string.
var ErrEmptyUserAgent = errors.New("empty user agent")
