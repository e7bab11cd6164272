// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package enrich

// enrichmentSystemPrompt constrains the model to a bare JSON object so the
// answer parses without post-processing. Keys mirror the Enrichment wire
// tags; absent knowledge must stay an empty field, never an invented one.
const enrichmentSystemPrompt = `You are a patent data specialist. Given a fragment of patent text, reconstruct the bibliographic record it most plausibly belongs to.

Respond with a single JSON object and nothing else: no markdown, no code fences, no commentary. Use exactly these keys:
{
  "title": "",
  "abstract": "",
  "description": "",
  "authors": [],
  "patent_holders": [],
  "ipc_codes": [],
  "publication_date": "",
  "application_date": ""
}

Rules: fill only fields the text supports; leave unknown fields empty. Dates use YYYY-MM-DD. IPC codes use standard notation (e.g. "G06F 17/30"). Answer in the language of the input text.`

// enrichmentUserPrompt wraps the text being analyzed.
const enrichmentUserPrompt = `Patent text fragment:

%s

Reconstruct the bibliographic record as JSON.`
