package config

// SERVER_YML is written to dev/config/server.yml the first time the server runs with --dev.
// 'rolodex.privateKeyPem' is left empty so a key is generated on boot.
const SERVER_YML = `
rolodex:
  privateKeyPem:
  cron:
    timeZone: "America/Toronto"
  listener:
    port: 3000
  session:
    keys:
    maxAge: 86400
    secure: false
  signedUrl:
    lifespanInSeconds: 0

sqlite:
  passPhrase: passphrase

google:
  storage:
    bucket: "rolodex"
    prefix: "rolodex-dev"
    sqliteBackupSchedule: "*/30 * * * *"
    enableSqliteBackupAndSync: false
  applicationCredentials:
`
