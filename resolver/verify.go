package resolver

// VerifyShared checks that two independently resolved builds, one per
// core, agree on every region tagged shared: same origin, same length,
// and identical placement for any section both builds put there. The
// check is exhaustive over the shared regions of either build and
// symmetric: swapping the arguments flags the same region.
func VerifyShared(a, b *Layout) error {
	if err := verifyRegions(a, b); err != nil {
		return err
	}
	if err := verifyRegions(b, a); err != nil {
		return err
	}
	for _, pa := range a.Placements() {
		if !pa.Section.Region.Attr.Shared() {
			continue
		}
		pb, err := b.Placement(pa.Section.Name)
		if err != nil {
			continue // private to one image
		}
		if pa.Start != pb.Start {
			return &MismatchError{pa.Section.Name, "shared section start", pa.Start, pb.Start}
		}
		if pa.End != pb.End {
			return &MismatchError{pa.Section.Name, "shared section end", pa.End, pb.End}
		}
	}
	return nil
}

func verifyRegions(a, b *Layout) error {
	for _, ra := range a.Table().Regions() {
		if !ra.Attr.Shared() {
			continue
		}
		rb, err := b.Table().Lookup(ra.Name)
		if err != nil {
			return &MismatchError{ra.Name, "shared region missing", ra.Origin, 0}
		}
		if ra.Origin != rb.Origin {
			return &MismatchError{ra.Name, "shared region origin", ra.Origin, rb.Origin}
		}
		if ra.Length != rb.Length {
			return &MismatchError{ra.Name, "shared region length", ra.Length, rb.Length}
		}
	}
	return nil
}
