/*
Copyright © 2024 - 2025 diskplan authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package utils

import (
	"os"
	"strings"
)

// ExpandTemplate substitutes $VAR references in command templates. Unknown
// variables are left in place so user templates can carry through shell-like
// placeholders untouched.
func ExpandTemplate(tmpl string, vars map[string]string) string {
	return os.Expand(tmpl, func(key string) string {
		if value, ok := vars[key]; ok {
			return value
		}
		return "$" + key
	})
}

var argQuoter = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// QuoteArg quotes a template substitution value so the rendered command line
// splits back into the original argument.
func QuoteArg(arg string) string {
	if arg == "" {
		return `""`
	}
	if !strings.ContainsAny(arg, " \t\n'\"\\") {
		return arg
	}
	return `"` + argQuoter.Replace(arg) + `"`
}
