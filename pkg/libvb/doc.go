//
// libvb is the board document library and the client of the visionboard document server.
//

// Create client
//
//	client, err := libvb.NewDefaultClient("https://board.nas.lan")
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Create a board
//
//	id, err := client.CreateBoard(ctx, libvb.SeedDocument())
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Edit and push it
//
//	doc, err := client.GetBoard(ctx, id)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	doc.Items = libvb.Prepend(doc.Items, libvb.Item{
//		ID:      libvb.NewItemID(),
//		Type:    libvb.TypeNote,
//		Title:   "Soul Food",
//		Content: "Biryani feast",
//	})
//
//	patch, err := libvb.Patch(doc)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Only top-level fields are merged, items are replaced wholesale.
//	err = client.UpdateBoard(ctx, id, patch, true)
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Backup
//
//	payload, err := libvb.Export(doc)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	backup, err := libvb.Import(payload) // Rejects payloads without items.
//	if err != nil {
//		log.Fatal(err)
//	}
//	backup.ApplyTo(doc)
package libvb
