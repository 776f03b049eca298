package store

import "testing"

func TestChoreLifecycle(t *testing.T) {
	db := setupTestDB(t)
	chores := NewChoreStore(db)

	c, err := chores.Create("portare fuori la spazzatura")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.Done {
		t.Error("new chore should not be done")
	}

	done, err := chores.SetDone(c.ID, true)
	if err != nil {
		t.Fatalf("set done: %v", err)
	}
	if !done.Done {
		t.Error("chore not marked done")
	}

	// Repeating the same request leaves the state unchanged.
	again, err := chores.SetDone(c.ID, true)
	if err != nil {
		t.Fatalf("set done twice: %v", err)
	}
	if !again.Done {
		t.Error("repeated set-done flipped the flag")
	}

	if err := chores.Delete(c.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	gone, err := chores.GetByID(c.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if gone != nil {
		t.Errorf("chore still present: %+v", gone)
	}
}

func TestChoreListNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	chores := NewChoreStore(db)

	if _, err := chores.Create("primo"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := chores.Create("secondo"); err != nil {
		t.Fatalf("create: %v", err)
	}

	list, err := chores.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].Task != "secondo" {
		t.Errorf("unexpected order: %+v", list)
	}
}
