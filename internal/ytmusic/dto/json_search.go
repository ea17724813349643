// Package dto contains the wire structures of the YouTube Music search
// API response, trimmed to the fields the application reads.
package dto

// SearchResponse is the top-level search API response.
//
// Song results live several renderers deep:
//
//	contents → tabbedSearchResultsRenderer → tabs[0] → tabRenderer →
//	content → sectionListRenderer → contents[] → musicShelfRenderer →
//	contents[] → musicResponsiveListItemRenderer
type SearchResponse struct {
	Contents struct {
		TabbedSearchResultsRenderer struct {
			Tabs []struct {
				TabRenderer struct {
					Content struct {
						SectionListRenderer struct {
							Contents []SectionContent `json:"contents"`
						} `json:"sectionListRenderer"`
					} `json:"content"`
				} `json:"tabRenderer"`
			} `json:"tabs"`
		} `json:"tabbedSearchResultsRenderer"`
	} `json:"contents"`
}

// SectionContent is one section of the result list. Only sections
// carrying a musicShelfRenderer contain song rows.
type SectionContent struct {
	MusicShelfRenderer *MusicShelf `json:"musicShelfRenderer"`
}

// MusicShelf is a shelf of song rows.
type MusicShelf struct {
	Contents []struct {
		MusicResponsiveListItemRenderer *ListItem `json:"musicResponsiveListItemRenderer"`
	} `json:"contents"`
}

// ListItem is a single song row.
type ListItem struct {
	PlaylistItemData struct {
		VideoID string `json:"videoId"`
	} `json:"playlistItemData"`

	FlexColumns []struct {
		MusicResponsiveListItemFlexColumnRenderer struct {
			Text struct {
				Runs []Run `json:"runs"`
			} `json:"text"`
		} `json:"musicResponsiveListItemFlexColumnRenderer"`
	} `json:"flexColumns"`

	Badges []struct {
		MusicInlineBadgeRenderer struct {
			Icon struct {
				IconType string `json:"iconType"`
			} `json:"icon"`
		} `json:"musicInlineBadgeRenderer"`
	} `json:"badges"`
}

// Run is one text fragment of a flex column. Fragments are separated
// by " • " runs; entity fragments carry a navigation endpoint telling
// what they link to.
type Run struct {
	Text               string `json:"text"`
	NavigationEndpoint struct {
		WatchEndpoint struct {
			VideoID string `json:"videoId"`
		} `json:"watchEndpoint"`
		BrowseEndpoint struct {
			BrowseID                              string `json:"browseId"`
			BrowseEndpointContextSupportedConfigs struct {
				BrowseEndpointContextMusicConfig struct {
					PageType string `json:"pageType"`
				} `json:"browseEndpointContextMusicConfig"`
			} `json:"browseEndpointContextSupportedConfigs"`
		} `json:"browseEndpoint"`
	} `json:"navigationEndpoint"`
}

// ExplicitBadgeIcon marks a song row as explicit.
const ExplicitBadgeIcon = "MUSIC_EXPLICIT_BADGE"

// PageType returns the linked page type of the run, or "" for plain text.
func (r Run) PageType() string {
	return r.NavigationEndpoint.BrowseEndpoint.BrowseEndpointContextSupportedConfigs.BrowseEndpointContextMusicConfig.PageType
}

// IsExplicit reports whether the row carries the explicit badge.
func (li *ListItem) IsExplicit() bool {
	for _, b := range li.Badges {
		if b.MusicInlineBadgeRenderer.Icon.IconType == ExplicitBadgeIcon {
			return true
		}
	}
	return false
}

// ListItems flattens the renderer tree into the song rows of every shelf,
// in document order.
func (r *SearchResponse) ListItems() []*ListItem {
	var items []*ListItem
	for _, tab := range r.Contents.TabbedSearchResultsRenderer.Tabs {
		for _, section := range tab.TabRenderer.Content.SectionListRenderer.Contents {
			if section.MusicShelfRenderer == nil {
				continue
			}
			for _, row := range section.MusicShelfRenderer.Contents {
				if row.MusicResponsiveListItemRenderer != nil {
					items = append(items, row.MusicResponsiveListItemRenderer)
				}
			}
		}
	}
	return items
}
