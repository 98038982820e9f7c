/*
Package config loads pefan defaults from YAML or HCL files.

	            +-------------+
	            |   Config    |
	            | (Settings)  |
	            +------+------+
	                   |
	      +-----------+-----------+
	      |                       |
	+-----+-----+           +----+----+
	|   YAML    |           |   HCL   |
	| Parser    |           | Parser  |
	+-----------+           +---------+

🎯 Purpose:
- Keep long or reused snippets out of shell history
- Share setup/teardown and import lists between invocations

🔄 Flow:
1. Load picks a parser by file extension
2. The parser decodes on top of Default()
3. The command applies explicitly set flags
4. Validate fills in derived settings and requires a script

⚡ HCL extras:
  - env.NAME interpolates process environment variables

🔍 Example:

	cfg, err := config.Load(ctx, "pefan.hcl")
	if err != nil {
		return err
	}
	cfg.Script = scriptFlag
	if err := cfg.Validate(); err != nil {
		return err
	}
*/
package config
