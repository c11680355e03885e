package constants

import "time"

// Assistant constants
const (
	// AssistantName is shown in the page title and sidebar
	AssistantName = "BELLA"

	// Greeting is the first transcript entry of every session and after a clear
	Greeting = "How may I assist you today?"

	// SystemPreamble opens every prompt sent to the hosted model
	SystemPreamble = "You are a helpful assistant. You do not respond as 'User' or pretend to be 'User'. You only respond once as 'Assistant'."

	// AppDescription is the sidebar blurb
	AppDescription = "BELLAChat is an open-source, domain-specific LLM trained on various documentation on housing, bylaws, societal standards, and more."
)

// Credential constants
const (
	// TokenPrefix is the prefix every Replicate API token carries
	TokenPrefix = "r8_"
	// TokenLength is the exact length of a Replicate API token
	TokenLength = 40
)

// Model catalog names
const (
	ModelLlama2_7B  = "Llama2-7B"
	ModelLlama2_13B = "Llama2-13B"
)

// ModelVersions maps catalog names to hosted model versions
var ModelVersions = map[string]string{
	ModelLlama2_7B:  "a16z-infra/llama7b-v2-chat:4f0a4744c7295c024a1de15e1a63c880d3da035fa1f49bfd344fe076074c8eea",
	ModelLlama2_13B: "a16z-infra/llama13b-v2-chat:df7690f1994d94e96ad9d568eac121aecf50684a0b0963b25a41cc40061269e5",
}

// ModelNames lists the catalog in display order
var ModelNames = []string{ModelLlama2_7B, ModelLlama2_13B}

// GatewayModelPrefix routes a model version through the gateway's Replicate provider
const GatewayModelPrefix = "replicate/"

// Local batch inference constants
const (
	LocalContextLength = 512
	LocalBatchSize     = 128
	LocalTemperature   = 0.1
	LocalTopP          = 0.9
	// LocalUnlimitedTokens asks the runtime to generate until end of sequence
	LocalUnlimitedTokens = -1
	LocalDefaultPrompt   = "What is Python?"
)

// Session store limits
const (
	// SessionIdleTimeout drops a session nobody has used for this long
	SessionIdleTimeout = 30 * time.Minute
	// MaxSessions bounds the store; the least recently used session goes first
	MaxSessions = 10000
)
