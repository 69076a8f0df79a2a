package service

const (
	EndpointText     = "text"
	EndpointImage    = "image"
	EndpointDocument = "document"
	EndpointAudio    = "audio"
)

// imageMimeType tags every uploaded image regardless of its reported type.
const imageMimeType = "image/jpeg"

const (
	documentInstruction = "Analyze the following document and provide a summary of the content."
	audioInstruction    = "Analyze the following audio and provide a summary of the content."
)
