package dataset

import "time"

// ScanOwners returns the projects a scan counts toward: owners of the
// scan's light whose own active window contains the instant. A shared
// light can be in-window for one owner and out-of-window for another at
// the same instant.
func (d *Dataset) ScanOwners(scan ScanEvent) []int {
	return d.inWindowOwners(d.Index.LightProjects[scan.LightID], scan.At)
}

// ClickOwners returns the projects a click counts toward, through the
// object-scene-project ownership chain, window-checked per owner.
func (d *Dataset) ClickOwners(click ClickEvent) []int {
	return d.inWindowOwners(d.Index.ObjectProjects[click.ObjectID], click.At)
}

func (d *Dataset) inWindowOwners(owners []int, at time.Time) []int {
	var out []int
	for _, id := range owners {
		if proj := d.ProjectByID(id); proj != nil && proj.InWindow(at) {
			out = append(out, id)
		}
	}
	return out
}
