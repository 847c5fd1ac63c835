package main

// defaultInstructionText is injected into every pass prompt unless
// overridden via -query-file.
const defaultInstructionText = "Edit the article to include relevant information from " +
	"the comments, revise and enhance the content, and make it engaging and easy " +
	"to understand. Avoid including code or commands, and present facts objectively " +
	"and clearly."
