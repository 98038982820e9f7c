// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package braced

// 🏷️ State is a scanner state tag. States carry no data.
type State uint8

const (
	NormalCode State = iota
	SemicolonSeen
	LineSplit
	BlockProbe
	BlockStartBrace
	BlockStartGap
	BlockEndBrace
	BlockEndGap
	QuoteOpen1
	QuoteOpen2
	QuoteOpen3
)

var stateNames = [...]string{
	NormalCode:      "NormalCode",
	SemicolonSeen:   "SemicolonSeen",
	LineSplit:       "LineSplit",
	BlockProbe:      "BlockProbe",
	BlockStartBrace: "BlockStartBrace",
	BlockStartGap:   "BlockStartGap",
	BlockEndBrace:   "BlockEndBrace",
	BlockEndGap:     "BlockEndGap",
	QuoteOpen1:      "QuoteOpen1",
	QuoteOpen2:      "QuoteOpen2",
	QuoteOpen3:      "QuoteOpen3",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "State(?)"
}

// 🎯 Terminal reports whether entering s triggers a flush.
func (s State) Terminal() bool {
	return s == LineSplit || s == BlockStartGap || s == BlockEndGap
}

type transition struct {
	from State
	char rune
}

// transitions has no fallback entries; a miss means NormalCode.
var transitions = map[transition]State{
	{NormalCode, ';'}:      SemicolonSeen,
	{SemicolonSeen, ' '}:   LineSplit,
	{NormalCode, ' '}:      BlockProbe,
	{BlockProbe, ' '}:      BlockProbe,
	{BlockProbe, '{'}:      BlockStartBrace,
	{BlockStartBrace, ' '}: BlockStartGap,
	{BlockStartGap, ' '}:   BlockStartGap,
	{BlockProbe, '}'}:      BlockEndBrace,
	{BlockEndBrace, ' '}:   BlockEndGap,
	{BlockEndGap, ' '}:     BlockEndGap,
	{NormalCode, '\''}:     QuoteOpen1,
	{QuoteOpen1, '\''}:     QuoteOpen2,
	{QuoteOpen3, '\''}:     QuoteOpen3,
}

// 🔀 Next returns the state that follows s on c.
func Next(s State, c rune) State {
	if next, ok := transitions[transition{s, c}]; ok {
		return next
	}
	return NormalCode
}
