package symtab

// Key extracts a grouping key from a symbol.
type Key func(*Symbol) string

var (
	ByModule   Key = func(s *Symbol) string { return s.Module }
	ByFolder   Key = func(s *Symbol) string { return s.Folder }
	ByMemory   Key = func(s *Symbol) string { return s.PhysicalMemory }
	ByFilename Key = func(s *Symbol) string { return s.Filename }
	BySection  Key = func(s *Symbol) string { return string(s.InputSection) }
	ByRealtime Key = func(s *Symbol) string { return string(s.Realtime) }
)

// Keys maps the names accepted on the command line to keys.
var Keys = map[string]Key{
	"module":          ByModule,
	"folder":          ByFolder,
	"memory":          ByMemory,
	"physical_memory": ByMemory,
	"filename":        ByFilename,
	"section":         BySection,
	"input_section":   BySection,
	"realtime":        ByRealtime,
}
