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

package config

import (
	"fmt"
	"regexp"
)

// CodeIdentifier identifies a function of the program by its package path, receiver type name, name and
// signature. Empty fields match anything.
type CodeIdentifier struct {
	Package   string `yaml:"package,omitempty"`
	Receiver  string `yaml:"receiver,omitempty"`
	Method    string `yaml:"method,omitempty"`
	Signature string `yaml:"signature,omitempty"`
	// This will not be part of the yaml config
	computedRegexs *codeIdentifierRegex
}

type codeIdentifierRegex struct {
	packageRegex   *regexp.Regexp
	receiverRegex  *regexp.Regexp
	methodRegex    *regexp.Regexp
	signatureRegex *regexp.Regexp
}

// CompileRegexes compiles the strings in the code identifier into regexes. It compiles all identifiers into regexes
// or none.
func CompileRegexes(cid CodeIdentifier) CodeIdentifier {
	var compiled [4]*regexp.Regexp
	for i, s := range []string{cid.Package, cid.Receiver, cid.Method, cid.Signature} {
		r, err := regexp.Compile(s)
		if err != nil {
			return cid
		}
		compiled[i] = r
	}
	cid.computedRegexs = &codeIdentifierRegex{
		packageRegex:   compiled[0],
		receiverRegex:  compiled[1],
		methodRegex:    compiled[2],
		signatureRegex: compiled[3],
	}
	return cid
}

// Matches returns true if each of the identifier's non-empty fields matches the corresponding argument. When the
// fields are compiled regexes, a field matches when its regex matches the argument; otherwise the field must be
// equal to the argument.
func (cid CodeIdentifier) Matches(pkg, receiver, method, signature string) bool {
	if r := cid.computedRegexs; r != nil {
		return (cid.Package == "" || r.packageRegex.MatchString(pkg)) &&
			(cid.Receiver == "" || r.receiverRegex.MatchString(receiver)) &&
			(cid.Method == "" || r.methodRegex.MatchString(method)) &&
			(cid.Signature == "" || r.signatureRegex.MatchString(signature))
	}
	return (cid.Package == "" || cid.Package == pkg) &&
		(cid.Receiver == "" || cid.Receiver == receiver) &&
		(cid.Method == "" || cid.Method == method) &&
		(cid.Signature == "" || cid.Signature == signature)
}

func (cid CodeIdentifier) String() string {
	s := cid.Method
	if cid.Receiver != "" {
		s = "(" + cid.Receiver + ")." + s
	}
	if cid.Package != "" {
		s = cid.Package + "." + s
	}
	if cid.Signature != "" {
		s = fmt.Sprintf("%s:%s", s, cid.Signature)
	}
	return s
}
