package llm

import "errors"

var errNoCompletion = errors.New("provider returned no completion choices")
