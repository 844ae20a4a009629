package agent

// Prompt templates for the four LLM-backed pipeline stages. Grading and
// verification request a single JSON object as the entire response; the
// judgment decoder tolerates Markdown code fences around it.

const graderPromptTemplate = `You are a retrieval grader. Assess whether a retrieved document is relevant to the question.

Retrieved document:
%s

User question:
%s

Respond with ONLY a JSON object:
{"relevance": "relevant|partially_relevant|not_relevant", "reason": "one sentence"}`

const reformulatorPromptTemplate = `The original query didn't retrieve good results. Generate a better search query.

Original question: %s

Respond with ONLY the reformulated query text.`

const generatorPromptTemplate = `Answer the question using ONLY the provided context documents.

RULES:
1. Only use information from the provided context
2. If the context doesn't contain enough info, say so
3. Cite sources using [Source: filename]
4. Be specific with numbers and details from documents

Context documents:
%s

Question: %s`

const verifierPromptTemplate = `Check if the answer is fully supported by the source documents.

Source documents:
%s

Generated answer:
%s

Respond with ONLY a JSON object:
{"grounded": true, "confidence": 0.9, "issues": []}`

// noDocumentsAnswer is returned without a generation call when retrieval
// produced no candidates at all.
const noDocumentsAnswer = "I don't have relevant documents to answer this. Please upload documents first."
