package source

import "github.com/michaelscutari/filetally/internal/record"

// Sample returns the 12-record reference hierarchy. Folder holds four files
// and Folder2, which holds three more; Folder3 holds Backup.zip; Code.py sits
// at the top level.
func Sample() []record.FileRecord {
	r := func(id int64, name string, cats []string, parent, size int64) record.FileRecord {
		return record.FileRecord{
			ID:         id,
			Name:       name,
			Categories: cats,
			Parent:     record.ParentFromInt(parent),
			Size:       size,
		}
	}
	return []record.FileRecord{
		r(1, "Document.txt", []string{"Documents"}, 3, 1024),
		r(2, "Image.jpg", []string{"Media", "Photos"}, 34, 2048),
		r(3, "Folder", []string{"Folder"}, -1, 0),
		r(5, "Spreadsheet.xlsx", []string{"Documents", "Excel"}, 3, 4096),
		r(8, "Backup.zip", []string{"Backup"}, 233, 8192),
		r(13, "Presentation.pptx", []string{"Documents", "Presentation"}, 3, 3072),
		r(21, "Video.mp4", []string{"Media", "Videos"}, 34, 6144),
		r(34, "Folder2", []string{"Folder"}, 3, 0),
		r(55, "Code.py", []string{"Programming"}, -1, 1536),
		r(89, "Audio.mp3", []string{"Media", "Audio"}, 34, 2560),
		r(144, "Spreadsheet2.xlsx", []string{"Documents", "Excel"}, 3, 2048),
		r(233, "Folder3", []string{"Folder"}, -1, 4096),
	}
}
