// Package describe turns a speech transcript into structured listing
// metadata using a generative language model.
package describe

import (
	"context"

	"dwellr/internal/models"
)

// SchemaPrompt instructs the model to emit exactly the listing schema. The
// key names must match models.PostMetadata's JSON tags; omitted keys mean the
// transcript did not mention the attribute.
const SchemaPrompt = `You extract rental listing attributes from a spoken walkthrough transcript.
Respond with a single JSON object and nothing else. Use only these keys, and
omit any key the transcript does not support:

  includesParking (boolean), leaseAvailabilityDate (string, YYYY-MM-DD),
  lengthOfLeaseInMonths (integer), petsAllowed (boolean), price (number),
  sqft (number), generatedDescription (string, 2-3 sentence listing summary),
  bedroomCount (integer), bathroomCount (integer), furnished (boolean),
  kitchen (boolean), appliances (string, comma separated),
  amenities (string, comma separated), yard (boolean), location (string),
  utilitiesIncluded (boolean)

Never guess a value that is not stated or clearly implied in the transcript.`

// Engine generates listing metadata from a transcript. Implementations are
// stateless and safe for concurrent use; a call is idempotent in effect but
// not deterministic, so two calls with the same transcript may differ.
type Engine interface {
	Generate(ctx context.Context, transcript string) (*models.PostMetadata, error)
}
