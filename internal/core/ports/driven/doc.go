// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - Encoder: Prefix-aware, normalised embeddings shared by every engine
//   - EmbeddingService: The raw embedding model client behind the Encoder
//   - VectorStore: Named persistent collections with top-k cosine query
//   - LegalTextStore: Raw document text cache
//   - DocumentFetcher: Scrapes a document's text from its source site
//   - DocumentSource: Cache-backed access to one document's text
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - LLMService: Answer synthesis. Without it every question is answered with the unavailable message.
//   - PromptStore: User-editable prompts. Without it built-in prompts are used.
//   - SchedulerStore: Persists refresh task state. Without it the scheduler is disabled.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
