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

import "golang.org/x/exp/slices"

const (
	// DefaultFixpointBoundFactor is the default factor applied to the bound on fixed-point passes
	DefaultFixpointBoundFactor = 4

	// FormatText renders slices as the list of their instructions
	FormatText = "text"
	// FormatSource renders slices as the source lines they span
	FormatSource = "source"
	// FormatXML renders slices as an xml report
	FormatXML = "xml"
	// FormatYAML renders slices as a yaml report
	FormatYAML = "yaml"
)

// Formats lists the valid output formats
var Formats = []string{FormatText, FormatSource, FormatXML, FormatYAML}

// IsValidFormat returns true if format is one of Formats
func IsValidFormat(format string) bool {
	return slices.Contains(Formats, format)
}
