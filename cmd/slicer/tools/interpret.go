// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package tools

import "regexp"

// Captures errors happening before any analysis starts (program could not load)
var regexCouldNotLoad = regexp.MustCompile("could not load program")

// Captures the kind of error that happen when you put a flag at the end instead of go files
var namedFilesMustBeGoFiles = regexp.MustCompile("-: named files must be .go files: -(\\w)")

// Captures the failure to find the function to slice
var functionNotFound = regexp.MustCompile("function not found")

// Captures function names that match several functions
var ambiguousFunction = regexp.MustCompile("is ambiguous, candidates are")

// Captures the failure to find the slicing criterion
var criterionNotFound = regexp.MustCompile("slicing criterion not found")

// Captures control-flow graphs whose loops never reach the exit
var unresolvedAncestor = regexp.MustCompile("unresolved ancestor")

// HintForErrorMessage looks for specific error message and returns some other message that might help the user
// resolve the problem.
func HintForErrorMessage(errMsg string) string {
	if regexCouldNotLoad.MatchString(errMsg) {
		if namedFilesMustBeGoFiles.MatchString(errMsg) {
			return "all command line flags should be before the path to the Go files to analyze"
		}
		return "make sure you have provided the right arguments for the slicer to load a Go program"
	}
	if functionNotFound.MatchString(errMsg) {
		return "the function is matched by name, e.g. gcd, (*Calculator).Add or example.com/calc.gcd"
	}
	if ambiguousFunction.MatchString(errMsg) {
		return "add the signature of the function to the name, e.g. Add:func(int)"
	}
	if criterionNotFound.MatchString(errMsg) {
		return "the variable must be assigned on the line, either a local variable or a field"
	}
	if unresolvedAncestor.MatchString(errMsg) {
		return "the function has a loop that never returns; slicing requires every instruction to reach the exit"
	}
	return ""
}
