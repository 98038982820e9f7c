/*
Package braced lowers pefan's one-line brace syntax into indented blocks.

	  "if x { a = 1; b = 2 } "
	            |
	   +--------+--------+
	   |  scanner (FSM)  |  state x char -> state
	   +--------+--------+
	            |
	  "if x:\n    a = 1\n    b = 2\n"

🎯 Purpose:
- Let users type control flow on a single command line
- Produce text the embedded interpreter can execute as-is

🔄 Flow:
1. Every character is appended to the pending buffer
2. The transition table picks the next state (miss -> NormalCode)
3. Terminal states trim their delimiter and emit the buffer as a line
4. At end of input the remainder becomes the last line

⚡ Delimiters:
  - "; "   ends a statement
  - " { "  opens a block (the line gets a trailing ':')
  - " } "  closes a block; "} }" closes two in a row

🚧 Known limits:
  - Quotes are not tracked past the opening quote, so "'a; b'" is split.
  - Unbalanced closing braces drive the indent counter below zero; such
    lines are emitted without padding.
  - Running Transform on its own output is not expected to round-trip.

🔍 Example:

	src := braced.Transform("for f in data { total += int(f) } ")
	// "for f in data:\n    total += int(f)\n"
*/
package braced
