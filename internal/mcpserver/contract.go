package mcpserver

// PromptFormatContract describes the versioned prompt document format that
// LLM consumers should follow when reading or extending prompts.
const PromptFormatContract = `# Prompt Document Format

A prompt is a Markdown file (` + "`.md`" + `) inside a board folder. It holds a
history of versions; the last one is the current prompt.

## Version markers

A version starts at a level-3 heading whose text is a version number:

` + "```" + `markdown
### V1.0
### Version 2.3
### Ver 4
### 版本 1.2
### 7.1
` + "```" + `

The prefix (` + "`V`" + `, ` + "`Version`" + `, ` + "`Ver`" + `, ` + "`版本`" + `) is optional and
case-insensitive. The minor number is optional and defaults to 0.

## Version content

The content of a version is everything after its marker up to the next
marker or the end of the file, trimmed. Only the last marker counts as the
current version. A file without any marker is treated as a single unversioned
prompt.

## Iterating

Never edit an old version in place. Call ` + "`iterate_prompt`" + `: it appends

` + "```" + `markdown

### V{major}.{minor+1}

<copy of the current version content>
` + "```" + `

to the end of the file. Then edit the new block.

## Rules

1. File names end with ` + "`.md`" + ` and use forward slashes in paths.
2. Wrap the prompt text in a fenced code block so it copies cleanly.
3. Keep versions in ascending order; new versions go at the end.
4. Encoding is UTF-8.

## Example

` + "```" + `markdown
### V 1.0

` + "````" + `
Summarize the following text in three bullet points.
` + "````" + `

### V1.1

` + "````" + `
Summarize the following text in three bullet points. Keep each under 15 words.
` + "````" + `
` + "```" + `
`
