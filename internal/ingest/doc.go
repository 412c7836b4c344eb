// Package ingest turns files into indexable chunks. Normalization
// strips format markup (markdown, HTML) down to plain text; chunking
// splits the text into overlapping fixed-size pieces with token
// estimates for downstream context budgeting.
package ingest
