package codegen

// EventType represents the type of generation event
type EventType int

const (
	// EventParsed indicates the document was parsed
	EventParsed EventType = iota
	// EventGroupRendered indicates a router module was rendered
	EventGroupRendered
	// EventFileWritten indicates a file was written to disk
	EventFileWritten
	// EventModelsGenerated indicates the models module was generated
	EventModelsGenerated
)

// Event represents progress during a generation run
type Event struct {
	Type       EventType
	Group      string // grouping key, for EventGroupRendered
	Operations int    // operation count of the document or group
	Path       string // file path, for EventFileWritten and EventModelsGenerated
	Index      int    // current group index (0-based)
	Total      int    // total number of groups
}

// OnEvent is a callback function for generation events
type OnEvent func(event Event)
