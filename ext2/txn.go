package ext2

import "github.com/hashicorp/go-multierror"

// undoStack accumulates compensating actions (free this inode, free that
// block) as an operation's steps succeed, so that a later step's failure
// can unwind everything already committed. This is the staged-transaction
// structure the source repository's scattered "TODO: cleanup" comments
// never followed through on: every L7 operation here pushes an undo action
// right after the step that needs one, instead of leaving a half-applied
// mutation behind on error.
type undoStack struct {
	actions []func()
}

// push registers an undo action to run, in reverse order, if rollback is
// called.
func (u *undoStack) push(undo func()) {
	u.actions = append(u.actions, undo)
}

// rollback runs every registered action in reverse order. Undo actions on
// an in-memory image buffer don't fail (there's no I/O to go wrong), but
// the stack is still built on go-multierror so a future backing store that
// can fail partway through an undo composes the same way the rest of this
// engine reports multi-cause failures.
func (u *undoStack) rollback() error {
	var result *multierror.Error
	for i := len(u.actions) - 1; i >= 0; i-- {
		func() {
			defer func() {
				if r := recover(); r != nil {
					result = multierror.Append(result, recoveredError{r})
				}
			}()
			u.actions[i]()
		}()
	}
	return result.ErrorOrNil()
}

type recoveredError struct{ v interface{} }

func (r recoveredError) Error() string {
	return "ext2: undo action panicked"
}

// freeInodeAndBlocks frees every data block reachable from idx's inode (so
// that a partially-written file or directory doesn't leak blocks on
// rollback) and then frees the inode itself. Operations that allocate a new
// inode push this as their very first undo action; the later undo action
// that detaches the directory entry pointing at it (see unlinkEntry) never
// cascades into freeing the inode on its own, so each inode and its blocks
// are only ever freed once during a rollback.
func freeInodeAndBlocks(img *Image, idx InodeIndex) {
	inode := img.Inode(idx)
	_ = WalkBlocks(img, inode, func(b BlockNo) error {
		img.FreeBlock(b)
		return nil
	})
	img.FreeInode(idx)
}
