// Package snippets stores expanded abbreviations so they can be shared.
//
// A Store keeps Snippet values under random UUID identifiers. Three
// backends are provided:
//
//   - MemoryStore keeps snippets in process memory (tests, single instance)
//   - DiskStore writes one JSON document per snippet to a directory
//   - S3Store writes the same documents to an S3 bucket
//
// # Usage
//
//	store, err := snippets.NewDiskStore(".emmet/snippets")
//	if err != nil {
//	    return err
//	}
//	id, err := store.Save(ctx, &snippets.Snippet{
//	    Abbreviation: "ul>li*3",
//	    Markup:       markup,
//	})
//
// Stores return ErrNotFound for unknown or malformed identifiers; callers
// map it to a 404. Run Cleanup periodically to drop old snippets.
package snippets
