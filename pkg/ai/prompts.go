package ai

// ExtractPrompt asks the model for the graph-relevant entities in a question.
// The response is schema-constrained to a JSON object with an "entities" list.
const ExtractPrompt = `
# Task Context
You are an assistant that identifies the entities in a user question that are likely to exist as nodes in a knowledge graph extracted from technical documents.

# Background Data
Question: "%s"

# Detailed Task Description & Rules
- Return only the most important entities, the ones the question is really about.
- Prefer concrete nouns and technical terms over generic words.
- Keep each entity short: single terms or short noun phrases, no full sentences.
- Do not invent entities that are not mentioned or clearly implied by the question.
- Return at most 8 entities.

# Output Formatting
Return a JSON object with this structure:
{
  "entities": ["<entity1>", "<entity2>"]
}
`

// AnswerPrompt turns ranked reasoning paths and context triples into the final
// answer request. The first placeholder takes the formatted path list, the
// second the triple list, the third the user question.
const AnswerPrompt = `
# Task Context
You are an expert research assistant analyzing a knowledge graph extracted from technical documents. Use the provided reasoning paths and knowledge triples to answer the question comprehensively.

# Multi-Hop Reasoning Paths
%s

# Knowledge Graph Context
%s

# Question
%s

# Detailed Task Description & Rules
1. Analyze the reasoning paths to understand multi-step relationships.
2. Use the knowledge triples as supporting evidence and cite the specific relationships you rely on.
3. Explain your reasoning process step by step.
4. If multiple paths lead to different conclusions, discuss them.
5. Indicate your confidence level based on the strength of the evidence.
6. If no relevant paths or context are available, say so and give a general answer based on your own knowledge.
`

// NoEvidencePrompt generates a response in the user's language when the graph
// produced no usable evidence for the question.
const NoEvidencePrompt = `
# Task Context
You are an assistant for a knowledge-graph question answering system. No relevant evidence was found in the graph for the user's question.

# Background Data
Question: "%s"

# Detailed Task Description & Rules
- Answer in the same language as the question.
- State briefly that the knowledge base contains no information on this topic.
- Do not invent facts or pretend the graph contained evidence.
- Keep the response to two or three sentences.
`
