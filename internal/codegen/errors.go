package codegen

import "github.com/moamenhredeen/fastapi-codegen/internal/writer"

// FilesystemError reports an output location that could not be created or a
// file that could not be written.
type FilesystemError = writer.FilesystemError
