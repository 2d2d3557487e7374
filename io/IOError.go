/*
Copyright 2014-2026 The fvcodec Authors
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
you may obtain a copy of the License at

                http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package io ships encoded sequences along with the code table or the
// dictionary needed to decode them.
package io

import (
	"fmt"
)

// IOError an extended error containing a message and a code value
type IOError struct {
	msg  string
	code int
	err  error
}

// Error returns the underlying error
func (this IOError) Error() string {
	if this.err != nil {
		return fmt.Sprintf("%v: %v (code %v)", this.msg, this.err, this.code)
	}

	return fmt.Sprintf("%v (code %v)", this.msg, this.code)
}

// Unwrap returns the cause of the error, if any
func (this IOError) Unwrap() error {
	return this.err
}

// Message returns the message string associated with the error
func (this IOError) Message() string {
	return this.msg
}

// ErrorCode returns the code value associated with the error
func (this IOError) ErrorCode() int {
	return this.code
}
