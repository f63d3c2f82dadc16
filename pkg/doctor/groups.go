package doctor

// GroupDefinition describes a check group.
type GroupDefinition struct {
	Name        string
	Description string
	CheckIDs    []string
}

// groupDefinitions defines the check groups with their metadata.
var groupDefinitions = map[string]GroupDefinition{
	GroupIfupdown: {
		Name:        "Network cleanup",
		Description: "Required to deconfigure interfaces set up by cloud-init",
		CheckIDs:    []string{IDIfquery, IDIfdown},
	},
	GroupInstall: {
		Name:        "Unattended install",
		Description: "Required to partition the target disk and install the image",
		CheckIDs: []string{
			IDLsblk, IDWipefs, IDSgdisk, IDPartprobe, IDMkfs, IDCp, IDGrubInstall, IDLiveMedium,
		},
	},
}

// GetGroups returns all check groups in a stable order.
func GetGroups() []CheckGroup {
	var groups []CheckGroup
	for _, groupID := range GetAllGroupIDs() {
		def := groupDefinitions[groupID]
		groups = append(groups, CheckGroup{
			ID:          groupID,
			Name:        def.Name,
			Description: def.Description,
		})
	}
	return groups
}

// GetGroupDefinition returns the definition for a specific group.
func GetGroupDefinition(groupID string) (GroupDefinition, bool) {
	def, ok := groupDefinitions[groupID]
	return def, ok
}

// GetAllGroupIDs returns all group IDs.
func GetAllGroupIDs() []string {
	return []string{GroupIfupdown, GroupInstall}
}
