package config

// DefaultExtractionPrompt takes the type/property constraints block and the text to analyse.
const DefaultExtractionPrompt = `# Knowledge Graph Instructions
You are an algorithm that extracts information in structured formats to build a knowledge graph.
Capture as much information from the text as possible without adding anything that is not explicitly stated.

- Nodes represent entities and concepts. "id" is a human-readable identifier taken from the text
  (for example "Elon Musk", never an integer). "type" is a basic, general label such as "Person".
- Use the most complete identifier for an entity everywhere it is mentioned ("John Doe", not "he" or "Joe").
- Relationships connect two nodes. Use general, timeless relationship types in UPPER_SNAKE_CASE
  such as "CEO_OF" rather than "BECAME_CEO_IN_2008".
- Every relationship endpoint must also appear in "nodes" with the same id and type.

%s
Return a single JSON object and nothing else, shaped like:
{
  "nodes": [
    {"id": "Elon Musk", "type": "Person", "properties": {}},
    {"id": "Tesla", "type": "Company", "properties": {}}
  ],
  "relationships": [
    {"source": {"id": "Elon Musk", "type": "Person"}, "target": {"id": "Tesla", "type": "Company"}, "type": "CEO_OF", "properties": {}}
  ]
}
If the text contains no entities, return {"nodes": [], "relationships": []}.

<TEXT>
%s
</TEXT>`

// DefaultCypherPrompt takes the schema and the question.
const DefaultCypherPrompt = `Task: Generate a Cypher statement to query a graph database.
Instructions:
Use only the provided relationship types and properties in the schema.
Do not use any other relationship types or properties that are not provided.
Schema:
%s
Note: Do not include any explanations or apologies in your responses.
Do not respond to any questions that might ask anything else than for you to construct a Cypher statement.
Do not include any text except the generated Cypher statement.

The question is:
%s`

// DefaultQAPrompt takes the query results as JSON and the question.
const DefaultQAPrompt = `You are an assistant that helps to form nice and human understandable answers.
The information part contains the provided information that you must use to construct an answer.
The provided information is authoritative, you must never doubt it or try to use your internal knowledge to correct it.
Make the answer sound as a response to the question. Do not mention that you based the result on the given information.
If the provided information is empty, say that you don't know the answer.
Information:
%s

Question: %s
Helpful Answer:`
