// File: internal/sync/merge.go
package sync

import "github.com/ampersand-labs/homework/internal/domain"

// MergeChats combines the local and remote chat collections. On an id
// collision the remote record overwrites the local one; chats present on
// only one side are kept. The result is sorted by LastUpdatedAt descending.
func MergeChats(localChats, remoteChats []domain.Chat) []domain.Chat {
	byID := make(map[string]int, len(localChats))
	merged := make([]domain.Chat, len(localChats))
	copy(merged, localChats)
	for i := range merged {
		byID[merged[i].ID] = i
	}

	for _, rc := range remoteChats {
		if i, ok := byID[rc.ID]; ok {
			merged[i] = rc
		} else {
			byID[rc.ID] = len(merged)
			merged = append(merged, rc)
		}
	}
	return sortChats(merged)
}

// MergeTemplates combines template collections. Unlike chats, a remote
// template is only appended when its id is absent locally; local edits win
// on collision.
func MergeTemplates(localTemplates, remoteTemplates []domain.StyleTemplate) []domain.StyleTemplate {
	seen := make(map[string]struct{}, len(localTemplates))
	merged := make([]domain.StyleTemplate, len(localTemplates))
	copy(merged, localTemplates)
	for i := range merged {
		seen[merged[i].ID] = struct{}{}
	}

	for _, rt := range remoteTemplates {
		if _, ok := seen[rt.ID]; ok {
			continue
		}
		seen[rt.ID] = struct{}{}
		merged = append(merged, rt)
	}
	return merged
}
