// Copyright (c) 2025 the fieldcheck authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package questionnaire implements the multi-part inspection questionnaire.

# Structure

  - AnswerStore: in-memory question → answer map, one per part
  - Navigator: ordered section sequence with a bounded cursor
  - Check / Result: per-section validation (answer presence, conditional
    note requirement for Yes/No)
  - Classify: partitions persisted answers into Part A and Part B by their
    question's section id, defaulting unclassifiable answers to Part A
  - Controller: the state machine tying everything together

# Flow

The Controller moves through explicit states:

	Loading → PartAEditing → BranchDecision → PartBEditing → Done
	                               └────────────────────────→ Done

Load fetches both section lists and any draft answers, reconciles the
answers into per-part stores, and starts Part A. Each section transition
(NextSection, Submit) runs validation, then the gateway's bounded-retry
save, then navigation — in that order, so no state leaves the questionnaire
with unsaved valid answers and no failure ever looks like success. After
Part A's last section saves, the branch decision offers Part B; FillPartB
swaps the section list and resets the cursor before the first Part B
question load, so a stale section list is never observed.

Question-load failures are recoverable: the list stays empty, the user is
notified, and ReloadQuestions retries. Validation failures carry both
offending id sets and a deterministic first question to focus.
*/
package questionnaire
