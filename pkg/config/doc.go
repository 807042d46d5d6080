/*
Package config manages configuration parsing and validation for streamspike.

	            +-------------+
	            |   Config    |
	            |   (Steps)   |
	            +------+------+
	                   |
	     +-------------+-------------+
	     |             |             |
	+----+----+   +----+----+   +----+----+
	|  YAML   |   |  JSON   |   |   HCL   |
	| Parser  |   | Parser  |   | Parser  |
	+---------+   +---------+   +---------+

🎯 Purpose:
- Describes the ordered list of steps a run executes
- Finds a config file next to the working directory, or falls back to Default
- Validates kinds, sources and destinations before anything touches disk

🔄 Flow:
1. Resolve picks an explicit path, a discovered .streamspike.* file, or Default
2. The parser registered for the file extension decodes it
3. Validate rejects unknown kinds and missing paths

🔍 Example (YAML):

	continue_on_error: false
	steps:
	  - kind: print
	    source: Input.txt
	  - kind: print_lines
	    source: Input.txt
	  - kind: append
	    source: Input.txt
	    destination: Output.txt
	  - kind: fetch
	    source: https://www.google.com/
	    destination: Google.txt
*/
package config
