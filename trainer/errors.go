// SPDX-License-Identifier: MIT

package trainer

import "fmt"

func trainerErrorf(method, format string, args ...interface{}) error {
	return fmt.Errorf("trainer: %s: "+format, append([]interface{}{method}, args...)...)
}
