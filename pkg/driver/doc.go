/*
Package driver runs the flow state engine for one storage origin.

A Driver answers three triggers:

  - Load: page-load initialization. A landing page always performs an init round trip
    and redirects. Any other page performs it only while the session is not initialized,
    then becomes Ready and fires OnDataReady once.
  - Submit: a form submission.
  - Invoke: a discrete action such as a button outside a form.

Submit and Invoke run compose, send, normalize, persist and navigate as one step behind
the submission gate. A trigger that arrives while another is in flight is dropped.

Archive-style flows additionally use ListArchive and SelectArchive.
*/
package driver
